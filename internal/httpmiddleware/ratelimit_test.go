package httpmiddleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterExhaustsBucket(t *testing.T) {
	l := NewRateLimiter(3, 3)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	// other clients keep their own bucket
	assert.True(t, l.Allow("5.6.7.8"))
}

func TestRateLimiterDefaultsCapacity(t *testing.T) {
	l := NewRateLimiter(0, 2)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}
