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

var _ repository.ProductGroupRepository = (*ProductGroupRepo)(nil)

// ProductGroupRepo persiste grupos y la tabla de vínculos product_group_products.
type ProductGroupRepo struct {
	conn
}

// NewProductGroupRepository construye el adaptador de persistencia para grupos de productos.
func NewProductGroupRepository(pool *pgxpool.Pool) *ProductGroupRepo {
	return &ProductGroupRepo{conn{pool: pool}}
}

const productGroupSelect = `
	SELECT id, name, image, price_with_discount, discount_percentage, discounted_amount, created_at
	FROM product_groups`

func scanProductGroup(row pgx.Row) (*entity.ProductGroup, error) {
	var g entity.ProductGroup
	if err := row.Scan(&g.ID, &g.Name, &g.Image, &g.PriceWithDiscount, &g.DiscountPercentage,
		&g.DiscountedAmount, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *ProductGroupRepo) List(ctx context.Context) ([]*entity.ProductGroup, error) {
	rows, err := r.q(ctx).Query(ctx, productGroupSelect+` ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list product groups: %w", err)
	}
	var list []*entity.ProductGroup
	byID := make(map[string]*entity.ProductGroup)
	for rows.Next() {
		g, err := scanProductGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product group: %w", err)
		}
		list = append(list, g)
		byID[g.ID] = g
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list product groups: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	links, err := r.q(ctx).Query(ctx,
		`SELECT product_group_id, product_id, created_at FROM product_group_products ORDER BY created_at, product_id`)
	if err != nil {
		return nil, fmt.Errorf("list product group links: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var l entity.ProductGroupProduct
		if err := links.Scan(&l.ProductGroupID, &l.ProductID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product group link: %w", err)
		}
		if g, ok := byID[l.ProductGroupID]; ok {
			g.Products = append(g.Products, l)
		}
	}
	return list, links.Err()
}

func (r *ProductGroupRepo) GetByID(ctx context.Context, id string) (*entity.ProductGroup, error) {
	if !validID(id) {
		return nil, nil
	}
	g, err := r.getOne(ctx, productGroupSelect+` WHERE id = $1`, id)
	if err != nil || g == nil {
		return g, err
	}
	if err := r.loadLinks(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *ProductGroupRepo) GetByName(ctx context.Context, name string) (*entity.ProductGroup, error) {
	g, err := r.getOne(ctx, productGroupSelect+` WHERE lower(name) = lower($1)`, name)
	if err != nil || g == nil {
		return g, err
	}
	if err := r.loadLinks(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *ProductGroupRepo) getOne(ctx context.Context, query string, arg any) (*entity.ProductGroup, error) {
	g, err := scanProductGroup(r.q(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product group: %w", err)
	}
	return g, nil
}

func (r *ProductGroupRepo) loadLinks(ctx context.Context, g *entity.ProductGroup) error {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT product_group_id, product_id, created_at FROM product_group_products
		 WHERE product_group_id = $1 ORDER BY created_at, product_id`, g.ID)
	if err != nil {
		return fmt.Errorf("load product group links: %w", err)
	}
	defer rows.Close()
	g.Products = nil
	for rows.Next() {
		var l entity.ProductGroupProduct
		if err := rows.Scan(&l.ProductGroupID, &l.ProductID, &l.CreatedAt); err != nil {
			return fmt.Errorf("scan product group link: %w", err)
		}
		g.Products = append(g.Products, l)
	}
	return rows.Err()
}

func (r *ProductGroupRepo) Create(ctx context.Context, g *entity.ProductGroup) error {
	_, err := r.exec(ctx, `
		INSERT INTO product_groups (id, name, image, price_with_discount, discount_percentage, discounted_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.ID, g.Name, g.Image, g.PriceWithDiscount, g.DiscountPercentage, g.DiscountedAmount, g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product group: %w", err)
	}
	return r.insertLinks(ctx, g)
}

// Update reescribe los campos del grupo y reemplaza el conjunto de vínculos.
// Debe ejecutarse dentro de una transacción para que el reemplazo sea atómico.
func (r *ProductGroupRepo) Update(ctx context.Context, g *entity.ProductGroup) error {
	_, err := r.exec(ctx, `
		UPDATE product_groups
		SET name = $2, image = $3, price_with_discount = $4, discount_percentage = $5, discounted_amount = $6
		WHERE id = $1`,
		g.ID, g.Name, g.Image, g.PriceWithDiscount, g.DiscountPercentage, g.DiscountedAmount)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product group: %w", err)
	}
	if _, err := r.exec(ctx, `DELETE FROM product_group_products WHERE product_group_id = $1`, g.ID); err != nil {
		return fmt.Errorf("clear product group links: %w", err)
	}
	return r.insertLinks(ctx, g)
}

func (r *ProductGroupRepo) insertLinks(ctx context.Context, g *entity.ProductGroup) error {
	if len(g.Products) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range g.Products {
		batch.Queue(`INSERT INTO product_group_products (product_group_id, product_id, created_at) VALUES ($1, $2, $3)`,
			g.ID, l.ProductID, l.CreatedAt)
	}
	// SendBatch no pasa por exec; las filas se cuentan a mano.
	br := r.sendBatch(ctx, batch)
	defer br.Close()
	for range g.Products {
		tag, err := br.Exec()
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert product group link: %w", err)
		}
		if st := txFromContext(ctx); st != nil {
			st.addAffected(tag.RowsAffected())
		}
	}
	return nil
}

func (r *ProductGroupRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.exec(ctx, `DELETE FROM product_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product group: %w", err)
	}
	return nil
}
