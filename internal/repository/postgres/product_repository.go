package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS productos (
	id BIGSERIAL PRIMARY KEY,
	nombre VARCHAR(255) NOT NULL UNIQUE,
	descripcion TEXT NOT NULL DEFAULT '',
	cantidad INTEGER NOT NULL CHECK (cantidad >= 0),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const selectProducts = `
SELECT id, nombre, descripcion, cantidad, created_at, updated_at
FROM productos`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create productos table: %w", err)
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProducts+`
ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, selectProducts+`
WHERE id = $1`, id))
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, selectProducts+`
WHERE nombre = $1`, name))
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO productos (nombre, descripcion, cantidad, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		product.Name,
		product.Description,
		product.Quantity,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert product: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	product.ID = id
	return id, nil
}

func (r *ProductRepository) UpdateFields(ctx context.Context, id int64, fields repository.ProductFields) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if fields.Name != nil {
		add("nombre", *fields.Name)
	}
	if fields.Description != nil {
		add("descripcion", *fields.Description)
	}
	if fields.Quantity != nil {
		add("cantidad", *fields.Quantity)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`
UPDATE productos
SET %s
WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update product: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("product update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("product delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanProduct(row scanner) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Quantity,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &product, nil
}
