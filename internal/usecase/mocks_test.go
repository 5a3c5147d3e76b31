// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memTxManager runs the callback directly; the in-memory repos below carry
// their own locking, which is what the concurrency tests exercise.
type memTxManager struct{}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memCodeRepo is a small in-memory implementation used by unit tests.
type memCodeRepo struct {
	mu    sync.Mutex
	seq   int
	store map[string]*model.Code // by ID

	saveErr              error
	findWithCapacityFunc func(ctx context.Context, tx repository.Tx, quota int) (*model.Code, error)
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.Code)}
}

func (m *memCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.Code) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if code.ID == "" {
		m.seq++
		code.ID = "code-" + strconv.Itoa(m.seq)
	}
	for _, c := range m.store {
		if c.Token == code.Token {
			return domain.ErrInternal
		}
	}
	cp := *code
	m.store[code.ID] = &cp
	return nil
}

func (m *memCodeRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.Token == token {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCodeRepo) FindWithCapacity(ctx context.Context, tx repository.Tx, quota int) (*model.Code, error) {
	if m.findWithCapacityFunc != nil {
		return m.findWithCapacityFunc(ctx, tx, quota)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.Code
	for _, c := range m.store {
		if c.Quota != quota || c.UsedCount >= c.Quota {
			continue
		}
		if best == nil || c.CreatedAt.Before(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

// ConsumeSlot mirrors the conditional update: exactly one of any number of
// concurrent calls gets the last slot.
func (m *memCodeRepo) ConsumeSlot(ctx context.Context, tx repository.Tx, codeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[codeID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if c.UsedCount >= c.Quota {
		return 0, domain.ErrQuotaExhausted
	}
	c.UsedCount++
	return c.Quota - c.UsedCount, nil
}

func (m *memCodeRepo) get(id string) *model.Code {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// memUsageRepo provides the in-memory redemption ledger.
type memUsageRepo struct {
	mu    sync.Mutex
	seq   int
	store []*model.UsageRecord

	insertErr error
}

func newMemUsageRepo() *memUsageRepo {
	return &memUsageRepo{}
}

func (m *memUsageRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.UsageRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		m.seq++
		rec.ID = "usage-" + strconv.Itoa(m.seq)
	}
	cp := *rec
	m.store = append(m.store, &cp)
	return nil
}

func (m *memUsageRepo) CountByCode(ctx context.Context, tx repository.Tx, codeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.store {
		if r.CodeID == codeID {
			n++
		}
	}
	return n, nil
}

func (m *memUsageRepo) ExistsForContent(ctx context.Context, tx repository.Tx, codeID, contentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.store {
		if r.CodeID == codeID && r.ContentID == contentID {
			return true, nil
		}
	}
	return false, nil
}

// memReceiptRepo enforces fingerprint uniqueness like the DB constraint.
type memReceiptRepo struct {
	mu    sync.Mutex
	seq   int
	store map[string]*model.PaymentReceipt // by fingerprint
}

func newMemReceiptRepo() *memReceiptRepo {
	return &memReceiptRepo{store: make(map[string]*model.PaymentReceipt)}
}

func (m *memReceiptRepo) Insert(ctx context.Context, tx repository.Tx, r *model.PaymentReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.store[r.SlipFingerprint]; dup {
		return domain.ErrDuplicateSlip
	}
	if r.ID == "" {
		m.seq++
		r.ID = "receipt-" + strconv.Itoa(m.seq)
	}
	cp := *r
	m.store[r.SlipFingerprint] = &cp
	return nil
}

func (m *memReceiptRepo) FindByFingerprint(ctx context.Context, tx repository.Tx, fp string) (*model.PaymentReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[fp]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReceiptRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// memContentRepo holds the catalog slice.
type memContentRepo struct {
	mu    sync.Mutex
	store map[string]*model.ContentItem
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{store: make(map[string]*model.ContentItem)}
}

func (m *memContentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memContentRepo) List(ctx context.Context, tx repository.Tx) ([]*model.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ContentItem, 0, len(m.store))
	for _, it := range m.store {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memContentRepo) Save(ctx context.Context, tx repository.Tx, item *model.ContentItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.store[item.ID] = &cp
	return nil
}

// mockVerifier is a configurable SlipVerifier.
type mockVerifier struct {
	mu       sync.Mutex
	calls    int
	evidence *model.SlipEvidence
	err      error
}

func (v *mockVerifier) Name() string { return "mock" }

func (v *mockVerifier) Verify(ctx context.Context, image []byte) (*model.SlipEvidence, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	cp := *v.evidence
	return &cp, nil
}

func (v *mockVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

// goodEvidence builds evidence that passes every check for the test config.
func goodEvidence(amount float64, age time.Duration) *model.SlipEvidence {
	raw, _ := json.Marshal(map[string]string{"transRef": "1234567890"})
	return &model.SlipEvidence{
		TransRef:      "1234567890",
		Amount:        amount,
		Date:          time.Now().Add(-age),
		CountryCode:   "TH",
		ReceiverName:  model.AccountName{TH: "นาย ตัวอย่าง", EN: "Mr. Example"},
		ReceiverProxy: "xxx-xxx-8872",
		Raw:           raw,
	}
}
