package dto

import (
	"strings"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
)

// IngredientRequest is one recipe layer in a request body
type IngredientRequest struct {
	Name  string `json:"name" validate:"required,max=80"`
	Color string `json:"color" validate:"required,max=40"`
	Parts int    `json:"parts" validate:"gt=0"`
}

// CreateDrinkRequest is the body of POST /drinks
type CreateDrinkRequest struct {
	Title  string              `json:"title" validate:"required,max=80"`
	Recipe []IngredientRequest `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateDrinkRequest is the body of PATCH /drinks/{id}; absent fields are left untouched
type UpdateDrinkRequest struct {
	Title  *string             `json:"title" validate:"omitnil,min=1,max=80"`
	Recipe []IngredientRequest `json:"recipe" validate:"omitnil,min=1,dive"`
}

// Normalize trims surrounding whitespace from text fields
func (r *CreateDrinkRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	normalizeRecipe(r.Recipe)
}

// Normalize trims surrounding whitespace from text fields
func (r *UpdateDrinkRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	normalizeRecipe(r.Recipe)
}

// ToUpdate converts the request to a domain update
func (r *UpdateDrinkRequest) ToUpdate() domain.DrinkUpdate {
	return domain.DrinkUpdate{
		Title:  r.Title,
		Recipe: ToIngredients(r.Recipe),
	}
}

// ToIngredients converts request ingredients to domain ingredients; nil stays nil
func ToIngredients(in []IngredientRequest) []domain.Ingredient {
	if in == nil {
		return nil
	}
	out := make([]domain.Ingredient, len(in))
	for i, ing := range in {
		out[i] = domain.Ingredient{Name: ing.Name, Color: ing.Color, Parts: ing.Parts}
	}
	return out
}

func normalizeRecipe(recipe []IngredientRequest) {
	for i := range recipe {
		recipe[i].Name = strings.TrimSpace(recipe[i].Name)
		recipe[i].Color = strings.TrimSpace(recipe[i].Color)
	}
}

// DrinksResponse wraps drinks in the success envelope
type DrinksResponse struct {
	Success bool        `json:"success"`
	Drinks  interface{} `json:"drinks"`
}

// DeleteResponse reports a deleted drink
type DeleteResponse struct {
	Success bool   `json:"success"`
	Delete  string `json:"delete"`
}

// NewShortDrinksResponse renders drinks without ingredient names
func NewShortDrinksResponse(drinks []*domain.Drink) DrinksResponse {
	out := make([]domain.ShortDrink, len(drinks))
	for i, d := range drinks {
		out[i] = d.Short()
	}
	return DrinksResponse{Success: true, Drinks: out}
}

// NewLongDrinksResponse renders the full drink representation
func NewLongDrinksResponse(drinks ...*domain.Drink) DrinksResponse {
	out := make([]domain.LongDrink, len(drinks))
	for i, d := range drinks {
		out[i] = d.Long()
	}
	return DrinksResponse{Success: true, Drinks: out}
}
