package model

import "time"

// UsageRecord is one redemption event: a code consumed one quota unit to
// unlock one content item. The count of records for a code always equals
// that code's UsedCount.
type UsageRecord struct {
	ID        string // ULID, time-sortable
	CodeID    string
	ContentID string
	CreatedAt time.Time
}
