package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[A-Z]{4}-[0-9]{4}$`)

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		ref := GenerateOrderReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = struct{}{}
	}
	// A generator stuck on one value would collapse all draws together.
	assert.Greater(t, len(seen), 1)
}
