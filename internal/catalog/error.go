package catalog

import "errors"

var (
	ErrDishNotFound = errors.New("dish not found")
	ErrMenuNotFound = errors.New("menu not found")

	ErrInvalidCategory  = errors.New("invalid dish category")
	ErrInvalidAttribute = errors.New("invalid dish attribute")
	ErrNegativePrice    = errors.New("dish price must not be negative")
	ErrEmptyName        = errors.New("dish name is required")
	ErrMissingCourse    = errors.New("menu requires four existing dishes")
)
