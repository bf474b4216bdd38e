package dashboard

import (
	"testing"
	"time"

	"lokanta-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0.0, growth(0, 0))
	assert.Equal(t, 100.0, growth(5, 0))
	assert.Equal(t, 20.0, growth(120, 100))
	assert.Equal(t, -50.0, growth(50, 100))
	assert.Equal(t, 33.3, growth(400, 300))
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]int{
		"7d": 7,
		"4w": 28,
		"6m": 180,
		"1y": 365,
	}
	for period, want := range cases {
		got, err := parsePeriod(period)
		require.NoError(t, err, period)
		assert.Equal(t, want, got, period)
	}
}

func TestParsePeriod_BadFormat(t *testing.T) {
	for _, period := range []string{"", "w4", "10", "3x", "badformat"} {
		_, err := parsePeriod(period)
		require.Error(t, err, period)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindBadRequest, ae.Kind)
	}
}

func TestWeekStart_Monday(t *testing.T) {
	// 2025-12-09 Salı -> hafta 2025-12-08 Pazartesi başlar
	tuesday := time.Date(2025, 12, 9, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), weekStart(tuesday))

	// Pazar günü hâlâ aynı haftanın içindedir
	sunday := time.Date(2025, 12, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), weekStart(sunday))

	// Pazartesi kendisi hafta başıdır
	monday := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, weekStart(monday))
}

func TestBucketLabel(t *testing.T) {
	ts := time.Date(2025, 2, 12, 14, 45, 0, 0, time.UTC)

	cases := map[string]string{
		"hourly":  "2025-02-12 14:00",
		"daily":   "2025-02-12",
		"weekly":  "2025-W07",
		"monthly": "2025-02",
		"yearly":  "2025",
	}
	for granularity, want := range cases {
		got, err := bucketLabel(ts, granularity)
		require.NoError(t, err, granularity)
		assert.Equal(t, want, got, granularity)
	}
}

func TestBucketLabel_UnknownGranularity(t *testing.T) {
	_, err := bucketLabel(time.Now(), "quarterly")
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindBadRequest, ae.Kind)
}

func TestValidateDays(t *testing.T) {
	assert.NoError(t, ValidateDays(1))
	assert.NoError(t, ValidateDays(365))
	assert.Error(t, ValidateDays(0))
	assert.Error(t, ValidateDays(366))
	assert.Error(t, ValidateDays(-5))
}
