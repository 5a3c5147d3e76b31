package model

import (
	"encoding/json"
	"time"
)

type ReceiptStatus string

const (
	ReceiptStatusCompleted ReceiptStatus = "COMPLETED"
	ReceiptStatusRejected  ReceiptStatus = "REJECTED"
)

// PaymentReceipt records one accepted (or rejected) bank-transfer slip.
// SlipFingerprint is globally unique forever: once a slip has been seen it
// can never be accepted again. Receipts are immutable after insert.
type PaymentReceipt struct {
	ID              string // ULID
	CodeID          string
	SlipFingerprint string
	Amount          float64
	Evidence        json.RawMessage // opaque provider payload, stored as JSONB
	Status          ReceiptStatus
	CreatedAt       time.Time
}
