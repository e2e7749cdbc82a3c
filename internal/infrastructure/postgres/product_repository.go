package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	conn
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{conn{pool: pool}}
}

const productSelect = `
	SELECT p.id, p.name, p.price, p.category_id, c.name, p.created_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.CategoryName, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q(ctx).Query(ctx, productSelect+` ORDER BY p.created_at DESC, p.name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q(ctx).QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.exec(ctx,
		`INSERT INTO products (id, name, price, category_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Price, p.CategoryID, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.exec(ctx,
		`UPDATE products SET name = $2, price = $3, category_id = $4 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.CategoryID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina el producto; sus vínculos con grupos se borran en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
