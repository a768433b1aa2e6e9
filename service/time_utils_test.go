package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodStartAt(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		resetHour int
		expected  time.Time
	}{
		{
			name:      "after reset uses today",
			now:       time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
			resetHour: 12,
			expected:  time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "before reset uses yesterday",
			now:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			resetHour: 12,
			expected:  time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly at reset starts new period",
			now:       time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			resetHour: 12,
			expected:  time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "midnight reset crosses month",
			now:       time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC),
			resetHour: 0,
			expected:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, periodStartAt(tt.now, tt.resetHour))
		})
	}
}

func TestNextResetAt(t *testing.T) {
	now := time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), nextResetAt(now, 12))
	assert.Equal(t, time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC), nextResetAt(now, 20))
	assert.Equal(t, time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC), nextResetAt(now, 18))
}
