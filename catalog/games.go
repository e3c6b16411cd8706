package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/gamelib/lrucache"
)

const (
	minRatingKeyPrefix   = "games:min_rating:"
	ratingRangeKeyPrefix = "games:rating_range:"
)

// GameService manages games and answers rating queries through a query cache.
//
// Every successful game write clears the whole query cache. Writes made to
// the store without going through GameService are not seen by the cache
// until the cached results expire.
type GameService struct {
	store  GameStore
	cache  *lrucache.Cache[string, []Game]
	logger *slog.Logger
	loads  singleflight.Group
	guard  fillGuard
}

// NewGameService returns a GameService that owns cache for rating queries.
// A nil logger discards output.
func NewGameService(store GameStore, cache *lrucache.Cache[string, []Game], logger *slog.Logger) *GameService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GameService{
		store:  store,
		cache:  cache,
		logger: logger.With("service", "games"),
	}
}

// GetGame returns the game with id.
func (s *GameService) GetGame(ctx context.Context, id int64) (Game, error) {
	g, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Game{}, fmt.Errorf("find game %d: %w", id, err)
	}
	if !ok {
		return Game{}, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return g, nil
}

// GamesByMinimumRating returns games whose average rating is at least minRating.
func (s *GameService) GamesByMinimumRating(ctx context.Context, minRating int) ([]Game, error) {
	key := fmt.Sprintf("%s%d", minRatingKeyPrefix, minRating)
	return s.cachedQuery(ctx, key, func(ctx context.Context) ([]Game, error) {
		return s.store.FindByMinimumRating(ctx, minRating)
	})
}

// GamesByRatingRange returns games whose average rating lies in [minRating, maxRating].
func (s *GameService) GamesByRatingRange(ctx context.Context, minRating, maxRating int) ([]Game, error) {
	if minRating > maxRating {
		return nil, fmt.Errorf("rating range %d..%d: %w", minRating, maxRating, ErrInvalidArgument)
	}
	key := fmt.Sprintf("%s%d:%d", ratingRangeKeyPrefix, minRating, maxRating)
	return s.cachedQuery(ctx, key, func(ctx context.Context) ([]Game, error) {
		return s.store.FindByRatingRange(ctx, minRating, maxRating)
	})
}

// cachedQuery serves key from the cache, or runs query once for all
// concurrent callers missing the same key since the last invalidation and
// caches its result. Each caller waits on its own ctx; the shared query runs
// detached from any one caller's cancellation.
func (s *GameService) cachedQuery(ctx context.Context, key string, query func(context.Context) ([]Game, error)) ([]Game, error) {
	if games, ok := s.cache.Get(key); ok {
		return cloneGames(games), nil
	}

	gen := s.guard.begin()
	ch := s.loads.DoChan(flightKey(key, gen), func() (any, error) {
		games, err := query(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if !s.guard.fill(gen, func() { s.cache.Put(key, games) }) {
			s.logger.Debug("skipped stale cache fill", "key", key)
		}
		return games, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("query %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("query %s: %w", key, res.Err)
		}
		return cloneGames(res.Val.([]Game)), nil
	}
}

// CreateGame stores a new game. Titles must be unique.
func (s *GameService) CreateGame(ctx context.Context, g Game) (Game, error) {
	exists, err := s.store.ExistsByTitle(ctx, g.Title)
	if err != nil {
		return Game{}, fmt.Errorf("check title %q: %w", g.Title, err)
	}
	if exists {
		return Game{}, fmt.Errorf("game %q: %w", g.Title, ErrAlreadyExists)
	}

	created, err := s.store.Create(ctx, g)
	if err != nil {
		return Game{}, fmt.Errorf("create game %q: %w", g.Title, err)
	}
	s.clearQueryCache()
	s.logger.Info("game created", "id", created.ID, "title", created.Title)
	return created, nil
}

// UpdateGame replaces the editable fields of game id with those of g.
// Nil CompanyIDs or Reviews leave the existing values untouched.
func (s *GameService) UpdateGame(ctx context.Context, id int64, g Game) (Game, error) {
	existing, err := s.GetGame(ctx, id)
	if err != nil {
		return Game{}, err
	}
	if err := s.checkTitle(ctx, existing, g.Title); err != nil {
		return Game{}, err
	}

	existing.Title = g.Title
	existing.Description = g.Description
	existing.ReleaseDate = g.ReleaseDate
	existing.Genre = g.Genre
	applyRelations(&existing, g)

	return s.save(ctx, existing)
}

// PatchGame applies only the non-zero fields of partial to game id.
func (s *GameService) PatchGame(ctx context.Context, id int64, partial Game) (Game, error) {
	existing, err := s.GetGame(ctx, id)
	if err != nil {
		return Game{}, err
	}

	if partial.Title != "" {
		if err := s.checkTitle(ctx, existing, partial.Title); err != nil {
			return Game{}, err
		}
		existing.Title = partial.Title
	}
	if partial.Description != "" {
		existing.Description = partial.Description
	}
	if !partial.ReleaseDate.IsZero() {
		existing.ReleaseDate = partial.ReleaseDate
	}
	if partial.Genre != "" {
		existing.Genre = partial.Genre
	}
	applyRelations(&existing, partial)

	return s.save(ctx, existing)
}

func (s *GameService) checkTitle(ctx context.Context, existing Game, title string) error {
	if existing.Title == title {
		return nil
	}
	taken, err := s.store.ExistsByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("check title %q: %w", title, err)
	}
	if taken {
		return fmt.Errorf("game %q: %w", title, ErrAlreadyExists)
	}
	return nil
}

func applyRelations(dst *Game, src Game) {
	if src.CompanyIDs != nil {
		dst.CompanyIDs = slices.Clone(src.CompanyIDs)
	}
	if src.Reviews != nil {
		dst.Reviews = make([]Review, len(src.Reviews))
		for i, r := range src.Reviews {
			r.GameID = dst.ID
			dst.Reviews[i] = r
		}
	}
}

func (s *GameService) save(ctx context.Context, g Game) (Game, error) {
	updated, err := s.store.Update(ctx, g)
	if err != nil {
		return Game{}, fmt.Errorf("update game %d: %w", g.ID, err)
	}
	s.clearQueryCache()
	s.logger.Info("game updated", "id", updated.ID)
	return updated, nil
}

// DeleteGame removes game id and reports whether it existed.
func (s *GameService) DeleteGame(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete game %d: %w", id, err)
	}
	if deleted {
		s.clearQueryCache()
		s.logger.Info("game deleted", "id", id)
	}
	return deleted, nil
}

// ClearCache drops every cached query result.
func (s *GameService) ClearCache() {
	s.clearQueryCache()
}

func (s *GameService) clearQueryCache() {
	s.guard.invalidate(s.cache.Clear)
}

// CacheStats reports the query cache counters.
func (s *GameService) CacheStats() lrucache.Snapshot {
	return s.cache.Stats()
}
