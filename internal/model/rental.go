package model

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// MinRentalDays is the smallest rental period that can be confirmed.
const MinRentalDays = 1

// RentalReceipt describes a confirmed rental.
type RentalReceipt struct {
	Item  InventoryItem `json:"item"`
	Days  int           `json:"days"`
	Total float64       `json:"total"`
}

// FormattedTotal returns the total with two decimal places.
func (r *RentalReceipt) FormattedTotal() string {
	return FormatMoney(r.Total)
}

// ParseRentalDays reads a day count the way a number input does: leading
// whitespace and an optional sign are accepted, digits are read up to the
// first non-digit, and anything that does not yield a positive integer
// falls back to MinRentalDays.
func ParseRentalDays(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return MinRentalDays
	}

	days, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflowing positive input is still a valid request for "many days".
		if s[0] != '-' {
			return math.MaxInt32
		}
		return MinRentalDays
	}

	return ClampRentalDays(days)
}

// ClampRentalDays raises any day count below MinRentalDays to MinRentalDays.
func ClampRentalDays(days int) int {
	if days < MinRentalDays {
		return MinRentalDays
	}
	return days
}

// RentalTotal returns the cost of renting at pricePerDay for days.
func RentalTotal(pricePerDay float64, days int) float64 {
	return pricePerDay * float64(days)
}

// FormatMoney formats an amount with exactly two decimal places.
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
