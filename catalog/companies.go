package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/gamelib/lrucache"
)

// CompanyService manages companies and serves lookups by id from a cache.
// Writes through the service keep the cached entry for that id current.
type CompanyService struct {
	store  CompanyStore
	games  GameStore
	cache  *lrucache.Cache[int64, Company]
	logger *slog.Logger
	loads  singleflight.Group
	guard  fillGuard
}

// NewCompanyService returns a CompanyService that owns cache for id lookups.
// games is consulted when linking games to companies. A nil logger discards
// output.
func NewCompanyService(store CompanyStore, games GameStore, cache *lrucache.Cache[int64, Company], logger *slog.Logger) *CompanyService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CompanyService{
		store:  store,
		games:  games,
		cache:  cache,
		logger: logger.With("service", "companies"),
	}
}

// GetCompany returns the company with id. Missing companies are not cached.
func (s *CompanyService) GetCompany(ctx context.Context, id int64) (Company, error) {
	if c, ok := s.cache.Get(id); ok {
		return c.Clone(), nil
	}

	gen := s.guard.begin()
	ch := s.loads.DoChan(flightKey(strconv.FormatInt(id, 10), gen), func() (any, error) {
		c, ok, err := s.store.FindByID(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, fmt.Errorf("find company %d: %w", id, err)
		}
		if !ok {
			return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
		}
		s.guard.fill(gen, func() { s.cache.Put(id, c) })
		return c, nil
	})

	select {
	case <-ctx.Done():
		return Company{}, fmt.Errorf("get company %d: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Company{}, res.Err
		}
		return res.Val.(Company).Clone(), nil
	}
}

// CreateCompany stores a new company. Names must be unique.
func (s *CompanyService) CreateCompany(ctx context.Context, c Company) (Company, error) {
	exists, err := s.store.ExistsByName(ctx, c.Name)
	if err != nil {
		return Company{}, fmt.Errorf("check name %q: %w", c.Name, err)
	}
	if exists {
		return Company{}, fmt.Errorf("company %q: %w", c.Name, ErrAlreadyExists)
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return Company{}, fmt.Errorf("create company %q: %w", c.Name, err)
	}
	if len(created) != 1 {
		return Company{}, fmt.Errorf("create company %q: store returned %d companies", c.Name, len(created))
	}
	s.logger.Info("company created", "id", created[0].ID, "name", created[0].Name)
	return created[0], nil
}

// CreateCompanies stores a batch of companies. If any name is already taken,
// or repeated within the batch, nothing is stored and the error lists every
// conflicting name.
func (s *CompanyService) CreateCompanies(ctx context.Context, companies []Company) ([]Company, error) {
	names := make([]string, 0, len(companies))
	var conflicts []string
	for _, c := range companies {
		if slices.Contains(names, c.Name) {
			conflicts = append(conflicts, c.Name)
			continue
		}
		names = append(names, c.Name)
	}

	existing, err := s.store.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("find companies by name: %w", err)
	}
	for _, c := range existing {
		conflicts = append(conflicts, c.Name)
	}
	if len(conflicts) > 0 {
		slices.Sort(conflicts)
		return nil, fmt.Errorf("companies %s: %w", strings.Join(slices.Compact(conflicts), ", "), ErrAlreadyExists)
	}

	created, err := s.store.Create(ctx, companies...)
	if err != nil {
		return nil, fmt.Errorf("create companies: %w", err)
	}
	if len(created) != len(companies) {
		return nil, fmt.Errorf("create companies: store returned %d of %d", len(created), len(companies))
	}
	s.logger.Info("companies created", "count", len(created))
	return created, nil
}

// UpdateCompany replaces the editable fields of company id and refreshes the
// cached entry.
func (s *CompanyService) UpdateCompany(ctx context.Context, id int64, c Company) (Company, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return Company{}, err
	}

	if existing.Name != c.Name {
		taken, err := s.store.ExistsByName(ctx, c.Name)
		if err != nil {
			return Company{}, fmt.Errorf("check name %q: %w", c.Name, err)
		}
		if taken {
			return Company{}, fmt.Errorf("company %q: %w", c.Name, ErrAlreadyExists)
		}
	}

	existing.Name = c.Name
	existing.Description = c.Description
	existing.FoundedYear = c.FoundedYear
	existing.Website = c.Website

	return s.save(ctx, existing)
}

// DeleteCompany removes company id and its cached entry, and reports whether
// it existed.
func (s *CompanyService) DeleteCompany(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete company %d: %w", id, err)
	}
	if deleted {
		s.guard.invalidate(func() { s.cache.Remove(id) })
		s.logger.Info("company deleted", "id", id)
	}
	return deleted, nil
}

// AddGame links game gameID to company companyID.
func (s *CompanyService) AddGame(ctx context.Context, companyID, gameID int64) (Company, error) {
	c, err := s.find(ctx, companyID)
	if err != nil {
		return Company{}, err
	}
	if err := s.requireGame(ctx, gameID); err != nil {
		return Company{}, err
	}
	if slices.Contains(c.GameIDs, gameID) {
		return c, nil
	}

	c.GameIDs = append(c.GameIDs, gameID)
	return s.save(ctx, c)
}

// RemoveGame unlinks game gameID from company companyID and reports whether
// the link existed.
func (s *CompanyService) RemoveGame(ctx context.Context, companyID, gameID int64) (bool, error) {
	c, err := s.find(ctx, companyID)
	if err != nil {
		return false, err
	}
	if err := s.requireGame(ctx, gameID); err != nil {
		return false, err
	}

	i := slices.Index(c.GameIDs, gameID)
	if i < 0 {
		return false, nil
	}
	c.GameIDs = slices.Delete(c.GameIDs, i, i+1)
	if _, err := s.save(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

// ClearCache drops every cached company.
func (s *CompanyService) ClearCache() {
	s.guard.invalidate(s.cache.Clear)
}

// CacheStats reports the company cache counters.
func (s *CompanyService) CacheStats() lrucache.Snapshot {
	return s.cache.Stats()
}

// find reads straight from the store so writes never start from a cached copy.
func (s *CompanyService) find(ctx context.Context, id int64) (Company, error) {
	c, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Company{}, fmt.Errorf("find company %d: %w", id, err)
	}
	if !ok {
		return Company{}, fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *CompanyService) requireGame(ctx context.Context, id int64) error {
	_, ok, err := s.games.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find game %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *CompanyService) save(ctx context.Context, c Company) (Company, error) {
	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return Company{}, fmt.Errorf("update company %d: %w", c.ID, err)
	}
	s.guard.invalidate(func() { s.cache.Put(updated.ID, updated.Clone()) })
	s.logger.Info("company updated", "id", updated.ID)
	return updated, nil
}
