package model

import "time"

// ContentItem is the slice of the catalog this service reads. The catalog
// collaborator owns the full lifecycle; only ID and Price matter for
// computing the expected transfer amount.
type ContentItem struct {
	ID        string // UUID
	Title     string
	Price     float64 // unit price per quota slot
	CreatedAt time.Time
}
