package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	"inventory-api/internal/storage"
)

// SnapshotConfig tells the snapshot service where dumps live.
type SnapshotConfig struct {
	Bucket    string
	KeyPrefix string
	URLExpiry time.Duration
}

// SnapshotService dumps the inventory to object storage.
type SnapshotService interface {
	Export(ctx context.Context, requestedBy int64) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.Snapshot, error)
}

type snapshotService struct {
	products repository.ProductRepository
	store    storage.Service
	cfg      SnapshotConfig
	now      func() time.Time
}

func NewSnapshotService(products repository.ProductRepository, store storage.Service, cfg SnapshotConfig) SnapshotService {
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "inventory-snapshots"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &snapshotService{
		products: products,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

type snapshotDocument struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	GeneratedBy   int64             `json:"generated_by"`
	TotalProducts int               `json:"total_products"`
	TotalQuantity int64             `json:"total_quantity"`
	Products      []snapshotProduct `json:"productos"`
}

type snapshotProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
}

func (s *snapshotService) Export(ctx context.Context, requestedBy int64) (*domain.Snapshot, error) {
	if !s.enabled() {
		return nil, ErrSnapshotsDisabled
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := snapshotDocument{
		GeneratedAt:   now,
		GeneratedBy:   requestedBy,
		TotalProducts: len(products),
		Products:      make([]snapshotProduct, len(products)),
	}
	for i, p := range products {
		doc.TotalQuantity += int64(p.Quantity)
		doc.Products[i] = snapshotProduct{ID: p.ID, Name: p.Name, Description: p.Description, Quantity: p.Quantity}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s-%s.json", s.cfg.KeyPrefix, now.Format("2006/01/02"), now.Format("150405"), uuid.NewString())
	if _, err := s.store.Put(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	}); err != nil {
		return nil, err
	}

	url, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, key, s.cfg.URLExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		Key:       key,
		Size:      int64(len(body)),
		CreatedAt: now,
		URL:       url,
	}, nil
}

func (s *snapshotService) List(ctx context.Context) ([]domain.Snapshot, error) {
	if !s.enabled() {
		return nil, ErrSnapshotsDisabled
	}

	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.cfg.KeyPrefix+"/")
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		snap := domain.Snapshot{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil {
			snap.CreatedAt = obj.LastModified.UTC()
		}
		snapshots = append(snapshots, snap)
	}
	// newest first; keys embed the date so they sort chronologically
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Key > snapshots[j].Key })
	return snapshots, nil
}

func (s *snapshotService) enabled() bool {
	return s.store != nil && s.cfg.Bucket != ""
}
