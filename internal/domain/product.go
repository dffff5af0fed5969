package domain

import "time"

// Product is a single inventory item.
type Product struct {
	ID          int64
	Name        string
	Description string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot describes an inventory dump stored in object storage.
type Snapshot struct {
	Key       string
	Size      int64
	CreatedAt time.Time
	URL       string
}
