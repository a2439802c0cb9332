package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromUnix(t *testing.T) {
	// 2026-03-15 18:30:45 UTC
	got := FromUnix(1773599445)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2026, 3, 15, 18, 30, 45, 0, time.UTC), got)
}

func TestFromUnixDate(t *testing.T) {
	got := FromUnixDate(1773599445)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDateOf(t *testing.T) {
	in := time.Date(2026, 3, 15, 23, 59, 59, 0, time.FixedZone("UTC+5", 5*3600))

	// 23:59 UTC+5 is 18:59 UTC, still the 15th.
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), DateOf(in))
}
