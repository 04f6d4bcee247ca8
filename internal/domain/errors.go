package domain

import "errors"

var (
	// ErrDrinkNotFound is returned when no drink matches the ID
	ErrDrinkNotFound = errors.New("drink not found")

	// ErrDrinkExists is returned when a drink with the same title already exists
	ErrDrinkExists = errors.New("drink already exists")

	// ErrDatabaseQuery is returned when a database operation fails
	ErrDatabaseQuery = errors.New("database query failed")
)
