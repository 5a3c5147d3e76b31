package model

import (
	"testing"
	"time"

	"video-unlock-service/internal/domain"
)

func TestNewCode(t *testing.T) {
	now := time.Now()

	if _, err := NewCode("id-1", "", 5, now); err != domain.ErrInvalidArgument {
		t.Errorf("empty token: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewCode("id-1", "ABCD1234", 0, now); err != domain.ErrInvalidArgument {
		t.Errorf("zero quota: expected ErrInvalidArgument, got %v", err)
	}

	c, err := NewCode("id-1", "ABCD1234", 5, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.UsedCount != 0 {
		t.Errorf("new code should start at zero usage, got %d", c.UsedCount)
	}
}

func TestCodeRemaining(t *testing.T) {
	c := &Code{Quota: 5, UsedCount: 3}
	if c.Remaining() != 2 {
		t.Errorf("expected remaining 2, got %d", c.Remaining())
	}
	if c.Exhausted() {
		t.Error("code with remaining capacity is not exhausted")
	}

	c.UsedCount = 5
	if c.Remaining() != 0 {
		t.Errorf("expected remaining 0, got %d", c.Remaining())
	}
	if !c.Exhausted() {
		t.Error("code at quota is exhausted")
	}
}
