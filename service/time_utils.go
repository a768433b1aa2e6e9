package service

import (
	"time"
)

// GetNextResetTime calculates the next daily limit reset time based on the configured hour
func GetNextResetTime(resetHour int) time.Time {
	return nextResetAt(time.Now().UTC(), resetHour)
}

// GetCurrentPeriodStart calculates when the current daily limit period started
func GetCurrentPeriodStart(resetHour int) time.Time {
	return periodStartAt(time.Now().UTC(), resetHour)
}

func nextResetAt(now time.Time, resetHour int) time.Time {
	resetTime := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)

	// Past today's reset means the next one is tomorrow
	if !now.Before(resetTime) {
		resetTime = resetTime.AddDate(0, 0, 1)
	}

	return resetTime
}

func periodStartAt(now time.Time, resetHour int) time.Time {
	periodStart := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)

	// Before today's reset means the period began yesterday
	if now.Before(periodStart) {
		periodStart = periodStart.AddDate(0, 0, -1)
	}

	return periodStart
}
