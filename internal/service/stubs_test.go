package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

type userRepoStub struct {
	mu     sync.Mutex
	seq    int64
	users  map[string]domain.User
	getErr error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]domain.User)}
}

func (u *userRepoStub) Init(ctx context.Context) error { return nil }

func (u *userRepoStub) Create(ctx context.Context, user *domain.User) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[user.Email]; ok {
		return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
	}
	u.seq++
	user.ID = u.seq
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	u.users[user.Email] = *user
	return user.ID, nil
}

func (u *userRepoStub) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.getErr != nil {
		return nil, u.getErr
	}
	user, ok := u.users[email]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	return &user, nil
}

func (u *userRepoStub) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

type productRepoStub struct {
	mu       sync.Mutex
	seq      int64
	products map[int64]domain.Product
	updates  []repository.ProductFields
	listErr  error
}

func newProductRepoStub() *productRepoStub {
	return &productRepoStub{products: make(map[int64]domain.Product)}
}

func (p *productRepoStub) Init(ctx context.Context) error { return nil }

func (p *productRepoStub) List(ctx context.Context) ([]domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]domain.Product, 0, len(p.products))
	for _, product := range p.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *productRepoStub) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.products[id]
	if !ok {
		return nil, fmt.Errorf("product: %w", repository.ErrNotFound)
	}
	return &product, nil
}

func (p *productRepoStub) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, product := range p.products {
		if product.Name == name {
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product: %w", repository.ErrNotFound)
}

func (p *productRepoStub) Create(ctx context.Context, product *domain.Product) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.products {
		if existing.Name == product.Name {
			return 0, fmt.Errorf("insert product: %w", repository.ErrDuplicate)
		}
	}
	p.seq++
	product.ID = p.seq
	p.products[product.ID] = *product
	return product.ID, nil
}

func (p *productRepoStub) UpdateFields(ctx context.Context, id int64, fields repository.ProductFields) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, fields)
	product, ok := p.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	if fields.Name != nil {
		for otherID, other := range p.products {
			if otherID != id && other.Name == *fields.Name {
				return fmt.Errorf("update product: %w", repository.ErrDuplicate)
			}
		}
		product.Name = *fields.Name
	}
	if fields.Description != nil {
		product.Description = *fields.Description
	}
	if fields.Quantity != nil {
		product.Quantity = *fields.Quantity
	}
	p.products[id] = product
	return nil
}

func (p *productRepoStub) Delete(ctx context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	delete(p.products, id)
	return nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
