// File: internal/usecase/slipcheck_uc.go
package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"video-unlock-service/internal/config"
	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/adapter"
	"video-unlock-service/internal/infra/logging"
	"video-unlock-service/internal/infra/metrics"
)

// Compile-time check
var _ SlipCheckUseCase = (*slipCheckUC)(nil)

// amountTolerance is the absolute tolerance when comparing the transferred
// amount against the expected amount.
const amountTolerance = 0.01

type SlipCheckUseCase interface {
	// Check verifies a slip with the external provider and validates the
	// evidence against the configured receiving account, the expected amount
	// and the expiration window. Checks run in a fixed order; the first
	// failure determines the returned error.
	Check(ctx context.Context, image []byte, expectedAmount float64) (*model.SlipEvidence, error)
}

type slipCheckUC struct {
	verifier adapter.SlipVerifier
	cfg      config.PaymentConfig
	now      func() time.Time
	log      *zerolog.Logger
}

func NewSlipCheckUseCase(verifier adapter.SlipVerifier, cfg config.PaymentConfig, logger *zerolog.Logger) *slipCheckUC {
	return &slipCheckUC{verifier: verifier, cfg: cfg, now: time.Now, log: logger}
}

func (u *slipCheckUC) Check(ctx context.Context, image []byte, expectedAmount float64) (*model.SlipEvidence, error) {
	start := time.Now()
	ev, err := u.verifier.Verify(ctx, image)
	metrics.ObserveSlipVerifyLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncSlipVerify("provider_error")
		u.log.Warn().Err(err).Str("provider", u.verifier.Name()).Msg("slip verification call failed")
		return nil, err
	}

	if err := u.checkReceiver(ev); err != nil {
		metrics.IncSlipVerify("invalid_receiver")
		u.log.Info().
			Str("receiver_en", ev.ReceiverName.EN).
			Str("proxy", logging.Redact(ev.ReceiverProxy, false)).
			Msg("slip receiver mismatch")
		return nil, err
	}

	if math.Abs(ev.Amount-expectedAmount) > amountTolerance {
		metrics.IncSlipVerify("invalid_amount")
		u.log.Info().
			Float64("expected", expectedAmount).
			Float64("received", ev.Amount).
			Msg("slip amount mismatch")
		return nil, domain.ErrInvalidAmount
	}

	elapsed := u.now().Sub(ev.Date)
	if elapsed > time.Duration(u.cfg.SlipExpirationHours)*time.Hour {
		metrics.IncSlipVerify("expired")
		u.log.Info().
			Time("slip_time", ev.Date).
			Dur("elapsed", elapsed).
			Msg("slip expired")
		return nil, domain.ErrExpiredSlip
	}

	metrics.IncSlipVerify("accepted")
	return ev, nil
}

// checkReceiver validates the account holder name (either locale variant
// must match exactly) and the trailing 4 digits of the masked proxy number.
func (u *slipCheckUC) checkReceiver(ev *model.SlipEvidence) error {
	nameOK := ev.ReceiverName.TH == u.cfg.AccountNameTH || ev.ReceiverName.EN == u.cfg.AccountNameEN
	if (ev.ReceiverName.TH == "" && ev.ReceiverName.EN == "") || !nameOK {
		return domain.ErrInvalidReceiver
	}

	if ev.ReceiverProxy == "" {
		return domain.ErrInvalidReceiver
	}
	if lastDigits(ev.ReceiverProxy, 4) != lastDigits(u.cfg.PromptPayNumber, 4) {
		return domain.ErrInvalidReceiver
	}
	return nil
}

// lastDigits strips masking separators and returns the trailing n characters.
// Provider proxies look like "xxx-xxx-8872"; only the visible tail is compared.
func lastDigits(s string, n int) string {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
