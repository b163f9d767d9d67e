package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DurationMinutes rounds the elapsed time up to whole minutes. A negative
// span (clock skew) counts as zero.
func DurationMinutes(entry, exit time.Time) int {
	d := exit.Sub(entry)
	if d <= 0 {
		return 0
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// BilledHours charges every started hour, with a minimum of one.
func BilledHours(minutes int) int {
	hours := (minutes + 59) / 60
	if hours < 1 {
		return 1
	}
	return hours
}

func ParkingFee(minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(BilledHours(minutes))))
}
