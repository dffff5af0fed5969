package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-api/internal/storage"
)

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) Put(ctx context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[opts.Key] = data
	f.types[opts.Key] = opts.ContentType
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (f *fakeStore) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeStore) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return "https://" + bucket + ".example/" + key + "?expires=" + expires.String(), nil
}

func TestSnapshotService_ExportAndList(t *testing.T) {
	products := newProductRepoStub()
	productSvc := NewProductService(products)
	ctx := context.Background()
	_, err := productSvc.Create(ctx, ProductInput{Name: "Widget", Description: "A widget", Quantity: intPtr(10)})
	require.NoError(t, err)
	_, err = productSvc.Create(ctx, ProductInput{Name: "Gadget", Quantity: intPtr(5)})
	require.NoError(t, err)

	store := newFakeStore()
	svc := NewSnapshotService(products, store, SnapshotConfig{Bucket: "inv", KeyPrefix: "/dumps/"})
	svc.(*snapshotService).now = func() time.Time { return testNow }

	snap, err := svc.Export(ctx, 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(snap.Key, "dumps/2026/10/15/120000-"), snap.Key)
	assert.True(t, strings.HasSuffix(snap.Key, ".json"))
	assert.Contains(t, snap.URL, "expires=15m0s")
	assert.Equal(t, "application/json", store.types[snap.Key])

	var doc struct {
		GeneratedBy   int64 `json:"generated_by"`
		TotalProducts int   `json:"total_products"`
		TotalQuantity int64 `json:"total_quantity"`
		Productos     []struct {
			Nombre   string `json:"nombre"`
			Cantidad int    `json:"cantidad"`
		} `json:"productos"`
	}
	require.NoError(t, json.Unmarshal(store.objects[snap.Key], &doc))
	assert.Equal(t, int64(3), doc.GeneratedBy)
	assert.Equal(t, 2, doc.TotalProducts)
	assert.Equal(t, int64(15), doc.TotalQuantity)
	require.Len(t, doc.Productos, 2)
	assert.Equal(t, "Widget", doc.Productos[0].Nombre)
	assert.Equal(t, int64(len(store.objects[snap.Key])), snap.Size)

	store.objects["dumps/readme.txt"] = []byte("ignored")
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.Key, list[0].Key)
}

func TestSnapshotService_Disabled(t *testing.T) {
	svc := NewSnapshotService(newProductRepoStub(), nil, SnapshotConfig{})

	_, err := svc.Export(context.Background(), 1)
	require.ErrorIs(t, err, ErrSnapshotsDisabled)
	_, err = svc.List(context.Background())
	require.ErrorIs(t, err, ErrSnapshotsDisabled)
}

func TestSnapshotService_UploadFailure(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("access denied")
	svc := NewSnapshotService(newProductRepoStub(), store, SnapshotConfig{Bucket: "inv"})

	_, err := svc.Export(context.Background(), 1)
	require.ErrorIs(t, err, store.putErr)
}
