package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// UpdateCategoryRequest entrada para renombrar una categoría.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
