package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dicepot/models"
)

// FormatAmount formats a currency amount with two decimals and thousand separators
func FormatAmount(amount decimal.Decimal) string {
	str := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(str, ".")

	var result strings.Builder
	if amount.IsNegative() {
		result.WriteRune('-')
	}
	n := len(whole)
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	result.WriteRune('.')
	result.WriteString(frac)

	return result.String()
}

// FormatSignedAmount formats an amount with an explicit + for gains
func FormatSignedAmount(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatAmount(amount)
	}
	return FormatAmount(amount)
}

// FormatMultiplier formats a multiplier as "x1.20"
func FormatMultiplier(m decimal.Decimal) string {
	return "x" + m.StringFixed(2)
}

var dieFaces = [...]string{"?", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// FormatDice renders a throw as unicode die faces followed by the values
func FormatDice(dice models.DiceTriple) string {
	faces := make([]string, len(dice))
	values := make([]string, len(dice))
	for i, v := range dice {
		if v >= 1 && v <= 6 {
			faces[i] = dieFaces[v]
		} else {
			faces[i] = dieFaces[0]
		}
		values[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%s (%s)", strings.Join(faces, " "), strings.Join(values, "-"))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
