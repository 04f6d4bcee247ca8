package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Ingredient is one layer of a drink recipe
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortIngredient is the public view of an ingredient, without its name
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Drink represents a drink in the catalog
type Drink struct {
	ID        ulid.ULID    `json:"id"`
	Title     string       `json:"title"`
	Recipe    []Ingredient `json:"recipe"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ShortDrink is the public representation served without authorization
type ShortDrink struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the detailed representation served to authorized callers
type LongDrink struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// NewDrink creates a new drink instance
func NewDrink(title string, recipe []Ingredient) *Drink {
	now := time.Now().UTC()
	return &Drink{
		ID:        ulid.Make(),
		Title:     title,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Short returns the drink without ingredient names
func (d *Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, ing := range d.Recipe {
		recipe[i] = ShortIngredient{Color: ing.Color, Parts: ing.Parts}
	}
	return ShortDrink{ID: d.ID.String(), Title: d.Title, Recipe: recipe}
}

// Long returns the full drink representation
func (d *Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID.String(), Title: d.Title, Recipe: recipe}
}

// DrinkUpdate holds the fields of a partial drink update; nil fields are left untouched
type DrinkUpdate struct {
	Title  *string
	Recipe []Ingredient
}

// Apply applies the update to the drink
func (u DrinkUpdate) Apply(d *Drink) {
	if u.Title != nil {
		d.Title = *u.Title
	}
	if u.Recipe != nil {
		d.Recipe = u.Recipe
	}
	d.UpdatedAt = time.Now().UTC()
}
