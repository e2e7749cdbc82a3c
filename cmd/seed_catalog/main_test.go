package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_UTF8(t *testing.T) {
	raw := []byte("category;name;price\nGranos;Arroz;400\ngranos;Frijol;600,50\nLácteos;Leche;3.5\n")

	categories, products, skipped, err := parseCatalog(raw)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []string{"Granos", "Lácteos"}, categories)
	require.Len(t, products, 3)
	assert.Equal(t, "Granos", products[1].category, "la categoría conserva la primera grafía")
	assert.Equal(t, "600.5", products[1].price.String())
}

func TestParseCatalog_Windows1251(t *testing.T) {
	utf := "category;name;price\nКрупы;Гречка;120\n"
	legacy, err := charmap.Windows1251.NewEncoder().String(utf)
	require.NoError(t, err)

	categories, products, _, err := parseCatalog([]byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, []string{"Крупы"}, categories)
	require.Len(t, products, 1)
	assert.Equal(t, "Гречка", products[0].name)
}

func TestParseCatalog_OmiteFilasInvalidas(t *testing.T) {
	raw := []byte("category;name;price\n;SinCategoria;1\nGranos;Arroz;-5\nGranos;Arroz;abc\nGranos;Arroz;10\nGRANOS;arroz;12\n")

	_, products, skipped, err := parseCatalog(raw)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Len(t, skipped, 4)
}

func TestWriteSQL_Idempotente(t *testing.T) {
	raw := []byte("category;name;price\nGranos;Arroz O'Neil;400\n")
	categories, products, _, err := parseCatalog(raw)
	require.NoError(t, err)

	var first, second strings.Builder
	require.NoError(t, writeSQL(&first, categories, products))
	require.NoError(t, writeSQL(&second, categories, products))

	sql := first.String()
	assert.Equal(t, sql, second.String(), "los ids son deterministas")
	assert.Contains(t, sql, "ON CONFLICT ((lower(name))) DO NOTHING")
	assert.Contains(t, sql, "'Arroz O''Neil'")
}
