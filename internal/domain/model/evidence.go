package model

import (
	"encoding/json"
	"time"
)

// AccountName carries the two locale variants the verification provider
// returns for a bank account holder.
type AccountName struct {
	TH string
	EN string
}

// SlipEvidence is the structured verification evidence extracted from the
// provider response for one slip. Raw keeps the full provider payload so the
// receipt can persist it untouched.
type SlipEvidence struct {
	TransRef      string
	Amount        float64
	Date          time.Time
	CountryCode   string
	ReceiverName  AccountName
	ReceiverProxy string // masked proxy number, e.g. "xxx-xxx-8872"
	SenderName    AccountName
	SenderBank    string
	Raw           json.RawMessage
}
