package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Category representa una categoría de productos. El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// SameName compara nombres de catálogo sin distinguir mayúsculas (case folding Unicode).
func SameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
