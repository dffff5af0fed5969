package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name        string
	Description string
	Quantity    *int
}

// ProductPatch carries a partial update; nil fields keep their stored value.
type ProductPatch struct {
	Name        *string
	Description *string
	Quantity    *int
}

// ProductService coordinates validation and persistence of products.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	products repository.ProductRepository
	validate *validator.Validate
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{
		products: products,
		validate: newValidator(),
	}
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if err := s.check(name, description, input.Quantity); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        name,
		Description: description,
		Quantity:    *input.Quantity,
	}
	if _, err := s.products.Create(ctx, product); err != nil {
		return nil, mapProductErr(err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error) {
	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}

	merged := *current
	var fields repository.ProductFields
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		merged.Name = name
		fields.Name = &name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		merged.Description = description
		fields.Description = &description
	}
	if patch.Quantity != nil {
		quantity := *patch.Quantity
		merged.Quantity = quantity
		fields.Quantity = &quantity
	}

	if err := s.check(merged.Name, merged.Description, &merged.Quantity); err != nil {
		return nil, err
	}
	if fields.Empty() {
		return current, nil
	}

	if err := s.products.UpdateFields(ctx, id, fields); err != nil {
		return nil, mapProductErr(err)
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return mapProductErr(err)
	}
	return nil
}

func (s *productService) check(name, description string, quantity *int) error {
	if err := s.validate.Struct(productRules{Name: name, Description: description, Quantity: quantity}); err != nil {
		return toValidationError(err)
	}
	return nil
}

func mapProductErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateName
	default:
		return err
	}
}
