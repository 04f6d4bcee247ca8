package domain

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// DrinkRepository defines the interface for drink persistence
type DrinkRepository interface {
	// List lists all drinks ordered by creation time
	List(ctx context.Context) ([]*Drink, error)

	// FindByID finds a drink by ID
	FindByID(ctx context.Context, id ulid.ULID) (*Drink, error)

	// ExistsByTitle checks whether a drink with the title exists
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// Create creates a new drink
	Create(ctx context.Context, drink *Drink) error

	// Update updates a drink
	Update(ctx context.Context, drink *Drink) error

	// Delete deletes a drink
	Delete(ctx context.Context, id ulid.ULID) error
}
