package dice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dicepot/game"
	"dicepot/service"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient balance", fmt.Errorf("wrap: %w", service.ErrInsufficientBalance), "Insufficient balance for this stake. Use `/deposit` to top up."},
		{"stake not allowed", service.ErrStakeNotAllowed, "Stake must be one of: 5, 10, 20, 50"},
		{"invalid stake", game.ErrInvalidStake, "Stake must be one of: 5, 10, 20, 50"},
		{"daily limit", fmt.Errorf("%w: 5.00 remaining until 2026-01-02T00:00:00Z", service.ErrDailyLimitReached), "Daily stake limit reached (5.00 remaining until 2026-01-02T00:00:00Z)."},
		{"nothing to cash out", game.ErrNothingToCashOut, "Roll at least once before cashing out."},
		{"round ended", game.ErrInvalidState, "This round has already ended."},
		{"forbidden", service.ErrForbidden, "This isn't your round. Start your own with `/dice play`."},
		{"not found", service.ErrRoundNotFound, "Round not found."},
		{"unknown", errors.New("connection reset"), "Unable to process request. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
