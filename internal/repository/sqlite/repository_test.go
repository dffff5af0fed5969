package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

func openTestDB(t *testing.T) (repository.UserRepository, repository.ProductRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := NewUserRepository(db)
	products := NewProductRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, products.Init(context.Background()))
	return users, products
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestUserRepository_CreateAndGet(t *testing.T) {
	users, _ := openTestDB(t)
	ctx := context.Background()

	user := &domain.User{Email: "ana@example.com", PasswordHash: "hash"}
	id, err := users.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, user.ID)

	byEmail, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users, _ := openTestDB(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "a"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "b"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", got.PasswordHash)
}

func TestUserRepository_NotFound(t *testing.T) {
	users, _ := openTestDB(t)

	_, err := users.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = users.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepository_Lifecycle(t *testing.T) {
	_, products := openTestDB(t)
	ctx := context.Background()

	widget := &domain.Product{Name: "Widget", Description: "A widget", Quantity: 10}
	id, err := products.Create(ctx, widget)
	require.NoError(t, err)

	got, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, "A widget", got.Description)
	assert.Equal(t, 10, got.Quantity)

	byName, err := products.GetByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	require.NoError(t, products.UpdateFields(ctx, id, repository.ProductFields{Quantity: intPtr(5)}))
	got, err = products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, "A widget", got.Description)

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, products.Delete(ctx, id))
	_, err = products.GetByID(ctx, id)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepository_ListEmpty(t *testing.T) {
	_, products := openTestDB(t)

	list, err := products.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestProductRepository_DuplicateName(t *testing.T) {
	_, products := openTestDB(t)
	ctx := context.Background()

	_, err := products.Create(ctx, &domain.Product{Name: "Widget", Quantity: 1})
	require.NoError(t, err)
	otherID, err := products.Create(ctx, &domain.Product{Name: "Gadget", Quantity: 1})
	require.NoError(t, err)

	_, err = products.Create(ctx, &domain.Product{Name: "Widget", Quantity: 2})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	err = products.UpdateFields(ctx, otherID, repository.ProductFields{Name: strPtr("Widget")})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestProductRepository_MissingRows(t *testing.T) {
	_, products := openTestDB(t)
	ctx := context.Background()

	err := products.UpdateFields(ctx, 99, repository.ProductFields{Quantity: intPtr(1)})
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = products.Delete(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
