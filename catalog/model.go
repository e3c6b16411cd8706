package catalog

import (
	"slices"
	"time"
)

// Game is a catalog title with its publishing companies and reviews.
type Game struct {
	ID          int64
	Title       string
	Description string
	Genre       string
	ReleaseDate time.Time
	CompanyIDs  []int64
	Reviews     []Review
}

// AverageRating is the mean review rating, or 0 for an unreviewed game.
func (g Game) AverageRating() float64 {
	if len(g.Reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range g.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(g.Reviews))
}

// Clone returns a copy that shares no slices with g.
func (g Game) Clone() Game {
	g.CompanyIDs = slices.Clone(g.CompanyIDs)
	g.Reviews = slices.Clone(g.Reviews)
	return g
}

// Review is a single rating left for a game.
type Review struct {
	ID      int64
	GameID  int64
	Rating  int
	Comment string
}

// Company develops or publishes games.
type Company struct {
	ID          int64
	Name        string
	Description string
	FoundedYear int
	Website     string
	GameIDs     []int64
}

// Clone returns a copy that shares no slices with c.
func (c Company) Clone() Company {
	c.GameIDs = slices.Clone(c.GameIDs)
	return c
}

func cloneGames(games []Game) []Game {
	if games == nil {
		return nil
	}
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}
