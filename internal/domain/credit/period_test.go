package credit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeriod(t *testing.T, total, used int) *Period {
	t.Helper()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	p, err := ReconstructPeriod(1, 42, total, used, start, end, time.Now(), time.Now())
	require.NoError(t, err)
	return p
}

func TestNewPeriod(t *testing.T) {
	start := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 9, 15, 0, 0, time.UTC)

	p, err := NewPeriod(42, 500, start, end)
	require.NoError(t, err)

	assert.Equal(t, uint(42), p.LicenseID())
	assert.Equal(t, 500, p.CreditsTotal())
	assert.Equal(t, 0, p.CreditsUsed())
	assert.Equal(t, 500, p.Remaining())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.PeriodStart(), "boundaries truncate to dates")
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), p.PeriodEnd())
}

func TestNewPeriodValidation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err := NewPeriod(0, 500, start, end)
	assert.Error(t, err)

	_, err = NewPeriod(42, 0, start, end)
	assert.Error(t, err)

	_, err = NewPeriod(42, 500, end, start)
	assert.Error(t, err)
}

func TestPeriodContains(t *testing.T) {
	p := testPeriod(t, 500, 0)

	assert.True(t, p.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), "start day is inclusive")
	assert.True(t, p.Contains(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)), "end day is inclusive")
	assert.True(t, p.Contains(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodConsume(t *testing.T) {
	p := testPeriod(t, 500, 50)

	require.NoError(t, p.Consume(10))
	assert.Equal(t, 60, p.CreditsUsed())
	assert.Equal(t, 440, p.Remaining())
}

func TestPeriodConsumeBounds(t *testing.T) {
	p := testPeriod(t, 2000, 0)

	assert.ErrorIs(t, p.Consume(0), ErrInvalidAmount)
	assert.ErrorIs(t, p.Consume(-1), ErrInvalidAmount)
	assert.ErrorIs(t, p.Consume(1001), ErrInvalidAmount)

	require.NoError(t, p.Consume(1))
	require.NoError(t, p.Consume(1000))
	assert.Equal(t, 1001, p.CreditsUsed())
}

func TestPeriodConsumeInsufficient(t *testing.T) {
	p := testPeriod(t, 500, 495)

	assert.ErrorIs(t, p.Consume(10), ErrInsufficientCredits)
	assert.Equal(t, 495, p.CreditsUsed(), "failed consumption leaves usage untouched")

	require.NoError(t, p.Consume(5))
	assert.Equal(t, 0, p.Remaining())
	assert.ErrorIs(t, p.Consume(1), ErrInsufficientCredits)
}

func TestReconstructPeriodValidation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err := ReconstructPeriod(0, 42, 500, 0, start, end, time.Now(), time.Now())
	assert.Error(t, err)

	_, err = ReconstructPeriod(1, 42, 500, 501, start, end, time.Now(), time.Now())
	assert.Error(t, err, "usage beyond total is rejected")
}
