package slip

import (
	"context"
	"encoding/json"
	"time"

	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/adapter"
)

var _ adapter.SlipVerifier = (*NoopVerifier)(nil)

// NoopVerifier returns canned evidence that passes every acceptance check
// for the configured account. Dev mode only; never wire it in production.
type NoopVerifier struct {
	ReceiverTH string
	ReceiverEN string
	Proxy      string
	Amount     float64
}

func (n *NoopVerifier) Name() string { return "noop" }

func (n *NoopVerifier) Verify(ctx context.Context, image []byte) (*model.SlipEvidence, error) {
	raw, _ := json.Marshal(map[string]string{"provider": "noop"})
	return &model.SlipEvidence{
		TransRef:    "DEV0000000",
		Amount:      n.Amount,
		Date:        time.Now(),
		CountryCode: "TH",
		ReceiverName: model.AccountName{
			TH: n.ReceiverTH,
			EN: n.ReceiverEN,
		},
		ReceiverProxy: n.Proxy,
		Raw:           raw,
	}, nil
}
