// Package core provides number parsing for grades, weights and targets.
//
// This file contains the helpers used to turn user-typed text into the
// float values stored in the grade book.
package core

import (
	"strconv"
	"strings"
)

// ParseNumber converts user input to a finite float.
//
// It accepts both dot (87.5) and comma (87,5) decimal separators and an
// optional trailing percent sign. Surrounding whitespace is ignored.
//
// Examples:
//
//	ParseNumber("87.5")  -> 87.5, nil
//	ParseNumber("87,5")  -> 87.5, nil
//	ParseNumber(" 90% ") -> 90, nil
//	ParseNumber("1.2.3") -> 0, ErrInvalidNumber
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	if err := ValidateNumber(v); err != nil {
		return 0, err
	}
	return v, nil
}

// FormatNumber renders a stored value the way the display shows grades:
// integers without decimals, everything else with the shortest exact form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent renders a score with two decimals and a percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
