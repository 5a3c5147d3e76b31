package model

import (
	"time"

	"video-unlock-service/internal/domain"
)

// Code is a multi-use unlock voucher. It is purchased once for a quota tier
// and can unlock content until UsedCount reaches Quota. Codes are never
// deleted by this service.
type Code struct {
	ID        string // UUID
	Token     string // short human-entered token, unique
	Quota     int    // maximum redemptions
	UsedCount int    // current redemptions, 0 <= UsedCount <= Quota
	CreatedAt time.Time
}

func NewCode(id, token string, quota int, createdAt time.Time) (*Code, error) {
	if token == "" || quota < 1 {
		return nil, domain.ErrInvalidArgument
	}
	return &Code{ID: id, Token: token, Quota: quota, UsedCount: 0, CreatedAt: createdAt}, nil
}

// Remaining reports how many redemptions are left on the code.
func (c *Code) Remaining() int {
	r := c.Quota - c.UsedCount
	if r < 0 {
		return 0
	}
	return r
}

// Exhausted reports whether the code has no capacity left.
func (c *Code) Exhausted() bool { return c.UsedCount >= c.Quota }
