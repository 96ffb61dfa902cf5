// Package core provides the time-accounting domain model.
//
// This file contains parsing and formatting helpers for hour values as they
// appear in user input ("7.5", "7,5") and in rendered reports.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHours converts a decimal string to fractional hours.
//
// It accepts both dot (7.5) and comma (7,5) decimal separators. Negative
// values and signs are rejected; zero is allowed since an explicit zero-hour
// segment is valid input.
func ParseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNegativeHours)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegativeHours, s)
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegativeHours, s)
	}
	return v, nil
}

// FormatHours renders fractional hours as "H:MM" for report output.
// Minutes are rounded half-up.
func FormatHours(hours float64) string {
	totalMinutes := int64(math.Round(hours * 60))
	return fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}
