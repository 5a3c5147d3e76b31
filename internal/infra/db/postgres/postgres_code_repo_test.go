//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

func TestCodeRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewCodeRepo(testPool)
	usages := NewUsageRecordRepo(testPool)

	t.Run("save, find, and consume a code", func(t *testing.T) {
		cleanup(t)

		code, err := model.NewCode(uuid.NewString(), "ABCD1234", 3, time.Now())
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByToken(ctx, nil, "ABCD1234")
		if err != nil {
			t.Fatalf("FindByToken failed: %v", err)
		}
		if found.ID != code.ID || found.Quota != 3 || found.UsedCount != 0 {
			t.Errorf("found code does not match saved code: %+v", found)
		}

		remaining, err := repo.ConsumeSlot(ctx, nil, code.ID)
		if err != nil {
			t.Fatalf("ConsumeSlot failed: %v", err)
		}
		if remaining != 2 {
			t.Errorf("expected 2 remaining, got %d", remaining)
		}

		found, err = repo.FindByToken(ctx, nil, "ABCD1234")
		if err != nil {
			t.Fatalf("FindByToken after consume failed: %v", err)
		}
		if found.UsedCount != 1 {
			t.Errorf("expected used_count 1, got %d", found.UsedCount)
		}
	})

	t.Run("unknown token yields ErrNotFound", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByToken(ctx, nil, "NOSUCH00")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("consuming an exhausted code yields ErrQuotaExhausted", func(t *testing.T) {
		cleanup(t)

		code, _ := model.NewCode(uuid.NewString(), "ONETIME1", 1, time.Now())
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := repo.ConsumeSlot(ctx, nil, code.ID); err != nil {
			t.Fatalf("first consume failed: %v", err)
		}
		_, err := repo.ConsumeSlot(ctx, nil, code.ID)
		if !errors.Is(err, domain.ErrQuotaExhausted) {
			t.Fatalf("expected ErrQuotaExhausted, got %v", err)
		}
	})

	t.Run("FindWithCapacity prefers the oldest code and skips full ones", func(t *testing.T) {
		cleanup(t)

		full, _ := model.NewCode(uuid.NewString(), "FULL0001", 5, time.Now().Add(-2*time.Hour))
		full.UsedCount = 5
		older, _ := model.NewCode(uuid.NewString(), "OLDER001", 5, time.Now().Add(-1*time.Hour))
		newer, _ := model.NewCode(uuid.NewString(), "NEWER001", 5, time.Now())
		for _, c := range []*model.Code{full, older, newer} {
			if err := repo.Save(ctx, nil, c); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}

		found, err := repo.FindWithCapacity(ctx, nil, 5)
		if err != nil {
			t.Fatalf("FindWithCapacity failed: %v", err)
		}
		if found.Token != "OLDER001" {
			t.Errorf("expected the oldest open code, got %q", found.Token)
		}

		// No code exists for an unseen tier.
		_, err = repo.FindWithCapacity(ctx, nil, 99)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for unseen tier, got %v", err)
		}
	})

	// The conditional update is the only quota guard; hammer one nearly-empty
	// code from many connections and count the winners.
	t.Run("concurrent consumption never oversells", func(t *testing.T) {
		cleanup(t)

		const quota = 5
		const contenders = 32
		code, _ := model.NewCode(uuid.NewString(), "RACE0001", quota, time.Now())
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		var wg sync.WaitGroup
		results := make(chan error, contenders)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ConsumeSlot(ctx, nil, code.ID)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var ok, exhausted int
		for err := range results {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrQuotaExhausted):
				exhausted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if ok != quota {
			t.Errorf("expected exactly %d successful consumes, got %d", quota, ok)
		}
		if exhausted != contenders-quota {
			t.Errorf("expected %d exhausted errors, got %d", contenders-quota, exhausted)
		}

		found, err := repo.FindByToken(ctx, nil, "RACE0001")
		if err != nil {
			t.Fatalf("FindByToken failed: %v", err)
		}
		if found.UsedCount != quota {
			t.Errorf("expected used_count %d, got %d", quota, found.UsedCount)
		}
	})

	t.Run("consume and usage record commit together", func(t *testing.T) {
		cleanup(t)

		code, _ := model.NewCode(uuid.NewString(), "TXPAIR01", 2, time.Now())
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		contentID := uuid.NewString()

		txm := NewTxManager(testPool)
		err := txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if _, err := repo.ConsumeSlot(ctx, tx, code.ID); err != nil {
				return err
			}
			return usages.Insert(ctx, tx, &model.UsageRecord{
				CodeID:    code.ID,
				ContentID: contentID,
				CreatedAt: time.Now(),
			})
		})
		if err != nil {
			t.Fatalf("transaction failed: %v", err)
		}

		n, err := usages.CountByCode(ctx, nil, code.ID)
		if err != nil {
			t.Fatalf("CountByCode failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 usage record, got %d", n)
		}
		seen, err := usages.ExistsForContent(ctx, nil, code.ID, contentID)
		if err != nil {
			t.Fatalf("ExistsForContent failed: %v", err)
		}
		if !seen {
			t.Error("expected the usage record to be visible after commit")
		}
	})

	t.Run("failed transaction rolls back the consume", func(t *testing.T) {
		cleanup(t)

		code, _ := model.NewCode(uuid.NewString(), "ROLLBAK1", 2, time.Now())
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		txm := NewTxManager(testPool)
		boom := errors.New("boom")
		err := txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if _, err := repo.ConsumeSlot(ctx, tx, code.ID); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the callback error, got %v", err)
		}

		found, err := repo.FindByToken(ctx, nil, "ROLLBAK1")
		if err != nil {
			t.Fatalf("FindByToken failed: %v", err)
		}
		if found.UsedCount != 0 {
			t.Errorf("expected used_count 0 after rollback, got %d", found.UsedCount)
		}
	})
}
