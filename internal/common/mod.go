package common

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

const (
	REQUEST_TIMEOUT_SECS = 2 * 60 * time.Second

	CART_SESSION_TTL   = 30 * 24 * time.Hour
	CHECKOUT_DRAFT_TTL = 24 * time.Hour

	// Free-text note edits are coalesced; only the latest value within the
	// window is persisted.
	NOTE_DEBOUNCE_WINDOW = 1 * time.Second

	MAX_CART_QUANTITY = 1000
)

// IsEmptyString checks if a string is empty after trimming
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}
