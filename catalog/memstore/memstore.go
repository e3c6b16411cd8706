// Package memstore implements the catalog stores in process memory.
//
// It stands in for a real database in the gamecache CLI and in tests. Every
// value crossing the API is deep-copied, so callers and the store never share
// slices.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gamelib/lrucache/catalog"
)

var (
	_ catalog.GameStore    = (*Games)(nil)
	_ catalog.CompanyStore = (*Companies)(nil)
)

// Games is an in-memory catalog.GameStore.
type Games struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]catalog.Game
	queries int64
}

// NewGames returns an empty game store.
func NewGames() *Games {
	return &Games{byID: make(map[int64]catalog.Game)}
}

func (s *Games) FindByID(_ context.Context, id int64) (catalog.Game, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.byID[id]
	if !ok {
		return catalog.Game{}, false, nil
	}
	return g.Clone(), true, nil
}

func (s *Games) ExistsByTitle(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.byID {
		if g.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *Games) Create(_ context.Context, g catalog.Game) (catalog.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	g = g.Clone()
	g.ID = s.nextID
	for i := range g.Reviews {
		g.Reviews[i].GameID = g.ID
	}
	s.byID[g.ID] = g
	return g.Clone(), nil
}

func (s *Games) Update(_ context.Context, g catalog.Game) (catalog.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[g.ID]; !ok {
		return catalog.Game{}, fmt.Errorf("game %d: %w", g.ID, catalog.ErrNotFound)
	}
	s.byID[g.ID] = g.Clone()
	return g.Clone(), nil
}

func (s *Games) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func (s *Games) FindByMinimumRating(_ context.Context, minRating int) ([]catalog.Game, error) {
	return s.filter(func(avg float64) bool {
		return avg >= float64(minRating)
	}), nil
}

func (s *Games) FindByRatingRange(_ context.Context, minRating, maxRating int) ([]catalog.Game, error) {
	return s.filter(func(avg float64) bool {
		return avg >= float64(minRating) && avg <= float64(maxRating)
	}), nil
}

// Queries returns how many rating queries the store has answered.
func (s *Games) Queries() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries
}

func (s *Games) filter(match func(avg float64) bool) []catalog.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries++
	out := []catalog.Game{}
	for _, g := range s.byID {
		if len(g.Reviews) > 0 && match(g.AverageRating()) {
			out = append(out, g.Clone())
		}
	}
	slices.SortFunc(out, func(a, b catalog.Game) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Companies is an in-memory catalog.CompanyStore.
type Companies struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]catalog.Company
	lookups int64
}

// NewCompanies returns an empty company store.
func NewCompanies() *Companies {
	return &Companies{byID: make(map[int64]catalog.Company)}
}

func (s *Companies) FindByID(_ context.Context, id int64) (catalog.Company, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	c, ok := s.byID[id]
	if !ok {
		return catalog.Company{}, false, nil
	}
	return c.Clone(), true, nil
}

func (s *Companies) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.byID {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Companies) FindByNames(_ context.Context, names []string) ([]catalog.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Company
	for _, id := range slices.Sorted(maps.Keys(s.byID)) {
		if c := s.byID[id]; slices.Contains(names, c.Name) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *Companies) Create(_ context.Context, companies ...catalog.Company) ([]catalog.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Company, 0, len(companies))
	for _, c := range companies {
		s.nextID++
		c = c.Clone()
		c.ID = s.nextID
		s.byID[c.ID] = c
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *Companies) Update(_ context.Context, c catalog.Company) (catalog.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.ID]; !ok {
		return catalog.Company{}, fmt.Errorf("company %d: %w", c.ID, catalog.ErrNotFound)
	}
	s.byID[c.ID] = c.Clone()
	return c.Clone(), nil
}

func (s *Companies) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

// Lookups returns how many FindByID calls the store has answered.
func (s *Companies) Lookups() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookups
}
