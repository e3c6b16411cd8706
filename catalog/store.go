package catalog

import "context"

// GameStore is the persistence boundary for games.
// Implementations can be backed by a relational database, an ORM or memory.
type GameStore interface {
	// FindByID returns the game and true if found, zero value and false otherwise.
	FindByID(ctx context.Context, id int64) (Game, bool, error)

	// ExistsByTitle reports whether a game already uses title.
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// Create stores a new game and returns it with its assigned id.
	Create(ctx context.Context, g Game) (Game, error)

	// Update replaces the stored game with the same id.
	Update(ctx context.Context, g Game) (Game, error)

	// Delete removes a game and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// FindByMinimumRating returns games whose average rating is at least minRating.
	FindByMinimumRating(ctx context.Context, minRating int) ([]Game, error)

	// FindByRatingRange returns games whose average rating lies in [minRating, maxRating].
	FindByRatingRange(ctx context.Context, minRating, maxRating int) ([]Game, error)
}

// CompanyStore is the persistence boundary for companies.
type CompanyStore interface {
	// FindByID returns the company and true if found, zero value and false otherwise.
	FindByID(ctx context.Context, id int64) (Company, bool, error)

	// ExistsByName reports whether a company already uses name.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindByNames returns the companies whose names are in names.
	FindByNames(ctx context.Context, names []string) ([]Company, error)

	// Create stores new companies and returns them with assigned ids, one
	// per input and in input order.
	Create(ctx context.Context, companies ...Company) ([]Company, error)

	// Update replaces the stored company with the same id.
	Update(ctx context.Context, c Company) (Company, error)

	// Delete removes a company and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
