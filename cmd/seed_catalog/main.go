// seed_catalog genera un script SQL idempotente para poblar categorías y productos
// a partir de un CSV exportado del catálogo (separador ';', columnas category;name;price).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual. Acepta UTF-8 o Windows-1251
// (exportaciones del sistema anterior).
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	Category string `csv:"category"`
	Name     string `csv:"name"`
	Price    string `csv:"price"`
}

type seedProduct struct {
	id       string
	category string
	name     string
	price    decimal.Decimal
}

func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = ';'
		r.TrimLeadingSpace = true
		return r
	})
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	categories, products, skipped, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "Fila omitida: %s\n", s)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, categories, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", outPath, len(categories), len(products))
}

// decodeLegacy convierte a UTF-8 las exportaciones Windows-1251.
func decodeLegacy(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}
	return io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.Windows1251.NewDecoder()))
}

// parseCatalog devuelve categorías únicas (ordenadas), productos y las filas descartadas.
// Las categorías se comparan sin distinguir mayúsculas; gana la primera grafía.
func parseCatalog(raw []byte) ([]string, []seedProduct, []string, error) {
	data, err := decodeLegacy(raw)
	if err != nil {
		return nil, nil, nil, err
	}
	var rows []catalogRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, nil, nil, err
	}

	catByKey := make(map[string]string)
	seen := make(map[string]struct{})
	var products []seedProduct
	var skipped []string
	for i, r := range rows {
		category := strings.TrimSpace(r.Category)
		name := strings.TrimSpace(r.Name)
		if category == "" || name == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: categoría o nombre vacío", i+2))
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Price), ",", "."))
		if err != nil || price.IsNegative() {
			skipped = append(skipped, fmt.Sprintf("línea %d: precio inválido %q", i+2, r.Price))
			continue
		}
		key := strings.ToLower(category)
		if existing, ok := catByKey[key]; ok {
			category = existing
		} else {
			catByKey[key] = category
		}
		// ID determinista: volver a generar el script no duplica productos.
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("myshop:product:"+key+"/"+strings.ToLower(name))).String()
		if _, dup := seen[id]; dup {
			skipped = append(skipped, fmt.Sprintf("línea %d: producto repetido %q", i+2, name))
			continue
		}
		seen[id] = struct{}{}
		products = append(products, seedProduct{id: id, category: category, name: name, price: price})
	}

	categories := make([]string, 0, len(catByKey))
	for _, c := range catByKey {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, products, skipped, nil
}

func writeSQL(out io.Writer, categories []string, products []seedProduct) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial (categorías y productos)\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	b.WriteString("-- 1. Categorías\n")
	for _, c := range categories {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("myshop:category:"+strings.ToLower(c))).String()
		fmt.Fprintf(&b, "INSERT INTO categories (id, name) VALUES ('%s', '%s')\n", id, escapeSQL(c))
		b.WriteString("ON CONFLICT ((lower(name))) DO NOTHING;\n")
	}

	// 2. Productos con subquery a la categoría (puede existir con otro id)
	b.WriteString("\n-- 2. Productos\n")
	for _, p := range products {
		fmt.Fprintf(&b, "INSERT INTO products (id, name, price, category_id)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', %s, id FROM categories WHERE lower(name) = lower('%s')\n",
			p.id, escapeSQL(p.name), p.price.String(), escapeSQL(p.category))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price;\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
