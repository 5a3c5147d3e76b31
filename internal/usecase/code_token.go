package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// generateCodeToken derives a short human-enterable token from a random
// 128-bit identifier: the first 8 hex characters, upper-cased. Collisions
// are negligible at this scale; the codes table's unique constraint catches
// the rest.
func generateCodeToken() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
