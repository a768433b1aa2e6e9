package game

import "errors"

var (
	// ErrInvalidState is returned when a round that is not ACTIVE is rolled or cashed out
	ErrInvalidState = errors.New("round is not active")
	// ErrNothingToCashOut is returned when the pot has not grown past the stake
	ErrNothingToCashOut = errors.New("nothing to cash out")
	// ErrInvalidStake is returned when a stake is not positive or has more than two decimal places
	ErrInvalidStake = errors.New("stake must be greater than zero with at most two decimal places")
	// ErrInvalidTiers is returned when a multiplier table fails validation
	ErrInvalidTiers = errors.New("invalid multiplier tiers")
)
