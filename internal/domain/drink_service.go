package domain

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// DrinkService defines the drink use cases exposed to the HTTP layer
type DrinkService interface {
	ListDrinks(ctx context.Context) ([]*Drink, error)
	CreateDrink(ctx context.Context, title string, recipe []Ingredient) (*Drink, error)
	UpdateDrink(ctx context.Context, id ulid.ULID, update DrinkUpdate) (*Drink, error)
	DeleteDrink(ctx context.Context, id ulid.ULID) error
}
