package adapter

import (
	"context"

	"video-unlock-service/internal/domain/model"
)

// SlipVerifier is the hex port for external slip-verification providers.
// Implementations receive the raw slip image and return structured evidence.
// Transport failures, timeouts, non-success provider statuses and malformed
// response shapes all surface as domain.ErrExternalService; the caller never
// retries automatically.
type SlipVerifier interface {
	Name() string
	Verify(ctx context.Context, image []byte) (*model.SlipEvidence, error)
}
