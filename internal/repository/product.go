package repository

import (
	"context"

	"inventory-api/internal/domain"
)

// ProductFields carries the columns of a partial product update.
// Nil fields are left untouched.
type ProductFields struct {
	Name        *string
	Description *string
	Quantity    *int
}

// Empty reports whether no column would be written.
func (f ProductFields) Empty() bool {
	return f.Name == nil && f.Description == nil && f.Quantity == nil
}

// ProductRepository exposes persistence operations for products.
type ProductRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (int64, error)
	UpdateFields(ctx context.Context, id int64, fields ProductFields) error
	Delete(ctx context.Context, id int64) error
}
