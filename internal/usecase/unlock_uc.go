// File: internal/usecase/unlock_uc.go
package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"video-unlock-service/internal/config"
	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
	"video-unlock-service/internal/infra/logging"
	"video-unlock-service/internal/infra/metrics"
)

// Compile-time check
var _ UnlockUseCase = (*unlockUC)(nil)

// UnlockResult is what both flows hand back to the transport layer: the
// code token the client should keep, and how many redemptions it has left.
type UnlockResult struct {
	Token     string
	Remaining int
}

type UnlockUseCase interface {
	// Purchase runs the full slip flow: fingerprint dedup, external
	// verification, then one transaction covering receipt insert, code
	// allocation and usage accounting.
	Purchase(ctx context.Context, slipImage []byte, quotaTier int, contentID string) (*UnlockResult, error)
	// Redeem consumes one quota unit of an existing code. No payment
	// evidence is involved on this path.
	Redeem(ctx context.Context, token, contentID string) (*UnlockResult, error)
	// Status reports the remaining quota of a code without consuming anything.
	Status(ctx context.Context, token string) (*UnlockResult, error)
}

type unlockUC struct {
	codes    repository.CodeRepository
	usages   repository.UsageRecordRepository
	receipts repository.ReceiptRepository
	contents repository.ContentRepository
	slips    SlipCheckUseCase
	tm       repository.TransactionManager
	cfg      config.PaymentConfig
	now      func() time.Time
	log      *zerolog.Logger
}

func NewUnlockUseCase(
	codes repository.CodeRepository,
	usages repository.UsageRecordRepository,
	receipts repository.ReceiptRepository,
	contents repository.ContentRepository,
	slips SlipCheckUseCase,
	tm repository.TransactionManager,
	cfg config.PaymentConfig,
	logger *zerolog.Logger,
) *unlockUC {
	return &unlockUC{
		codes:    codes,
		usages:   usages,
		receipts: receipts,
		contents: contents,
		slips:    slips,
		tm:       tm,
		cfg:      cfg,
		now:      time.Now,
		log:      logger,
	}
}

func (u *unlockUC) Purchase(ctx context.Context, slipImage []byte, quotaTier int, contentID string) (*UnlockResult, error) {
	defer logging.TraceDuration(u.log, "UnlockUC.Purchase")()

	if len(slipImage) == 0 || quotaTier < 1 || contentID == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Fingerprint dedup before any external call: a slip whose hash is
	// already on record never costs a provider round-trip.
	fp := SlipFingerprint(slipImage)
	if _, err := u.receipts.FindByFingerprint(ctx, nil, fp); err == nil {
		metrics.IncDuplicateSlip()
		u.log.Info().Str("fingerprint", logging.Redact(fp, false)).Msg("duplicate slip rejected")
		return nil, domain.ErrDuplicateSlip
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	content, err := u.contents.FindByID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	unitPrice := content.Price
	if unitPrice <= 0 {
		unitPrice = u.cfg.PricePerUnlock
	}
	expected := float64(quotaTier) * unitPrice

	ev, err := u.slips.Check(ctx, slipImage, expected)
	if err != nil {
		return nil, err
	}

	var result *UnlockResult
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		code, err := u.codes.FindWithCapacity(ctx, tx, quotaTier)
		created := false
		if errors.Is(err, domain.ErrNotFound) {
			code, err = u.createCode(ctx, tx, quotaTier)
			created = true
		}
		if err != nil {
			return err
		}

		remaining, err := u.codes.ConsumeSlot(ctx, tx, code.ID)
		if errors.Is(err, domain.ErrQuotaExhausted) && !created {
			// The reused code got exhausted by a concurrent purchaser.
			// A paid slip must still yield a usable unlock: allocate fresh.
			code, err = u.createCode(ctx, tx, quotaTier)
			if err != nil {
				return err
			}
			remaining, err = u.codes.ConsumeSlot(ctx, tx, code.ID)
		}
		if err != nil {
			return err
		}

		receipt := &model.PaymentReceipt{
			CodeID:          code.ID,
			SlipFingerprint: fp,
			Amount:          expected,
			Evidence:        ev.Raw,
			Status:          model.ReceiptStatusCompleted,
			CreatedAt:       u.now(),
		}
		if err := u.receipts.Insert(ctx, tx, receipt); err != nil {
			// The unique constraint on the fingerprint closes the race
			// between two concurrent uploads of the identical slip.
			return err
		}

		if err := u.usages.Insert(ctx, tx, &model.UsageRecord{
			CodeID:    code.ID,
			ContentID: contentID,
			CreatedAt: u.now(),
		}); err != nil {
			return err
		}

		result = &UnlockResult{Token: code.Token, Remaining: remaining}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSlip) {
			metrics.IncDuplicateSlip()
		}
		metrics.IncRedemption("purchase", outcomeLabel(err))
		return nil, err
	}

	metrics.IncRedemption("purchase", "ok")
	metrics.AddPurchaseRevenue(expected)
	u.log.Info().
		Str("code", result.Token).
		Int("remaining", result.Remaining).
		Float64("amount", expected).
		Msg("purchase completed")
	return result, nil
}

func (u *unlockUC) Redeem(ctx context.Context, token, contentID string) (*UnlockResult, error) {
	defer logging.TraceDuration(u.log, "UnlockUC.Redeem")()

	if token == "" || contentID == "" {
		return nil, domain.ErrInvalidArgument
	}

	var result *UnlockResult
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		code, err := u.codes.FindByToken(ctx, tx, token)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return err
		}

		if u.cfg.SingleUnlockPerContent {
			seen, err := u.usages.ExistsForContent(ctx, tx, code.ID, contentID)
			if err != nil {
				return err
			}
			if seen {
				return domain.ErrAlreadyUnlocked
			}
		}

		remaining, err := u.codes.ConsumeSlot(ctx, tx, code.ID)
		if err != nil {
			return err
		}

		if err := u.usages.Insert(ctx, tx, &model.UsageRecord{
			CodeID:    code.ID,
			ContentID: contentID,
			CreatedAt: u.now(),
		}); err != nil {
			return err
		}

		result = &UnlockResult{Token: code.Token, Remaining: remaining}
		return nil
	})
	if err != nil {
		metrics.IncRedemption("redeem", outcomeLabel(err))
		return nil, err
	}

	metrics.IncRedemption("redeem", "ok")
	return result, nil
}

func (u *unlockUC) Status(ctx context.Context, token string) (*UnlockResult, error) {
	if token == "" {
		return nil, domain.ErrInvalidArgument
	}
	code, err := u.codes.FindByToken(ctx, nil, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &UnlockResult{Token: code.Token, Remaining: code.Remaining()}, nil
}

func (u *unlockUC) createCode(ctx context.Context, tx repository.Tx, quota int) (*model.Code, error) {
	code, err := model.NewCode(uuid.NewString(), generateCodeToken(), quota, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.codes.Save(ctx, tx, code); err != nil {
		return nil, err
	}
	metrics.IncCodeIssued(strconv.Itoa(quota))
	return code, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuotaExhausted):
		return "exhausted"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateSlip):
		return "duplicate_slip"
	case errors.Is(err, domain.ErrAlreadyUnlocked):
		return "already_unlocked"
	default:
		return "error"
	}
}
