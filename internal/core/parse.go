// Package core provides number parsing, formatting and the report
// derivation logic.
//
// This file contains the locale-tolerant decimal parser and the id-ID
// display formatters. Operators enter meter readings inconsistently as
// "1192,86", "1192.86" or "1.192,86"; the parser discriminates a decimal
// tail from thousands grouping without asking for a locale.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalTail matches a final "." or "," followed by one or two digits.
// Three or more digits after the last separator are always a thousands
// group, never a fraction.
var decimalTail = regexp.MustCompile(`^(.*)[.,](\d{1,2})$`)

var separators = strings.NewReplacer(".", "", ",", "")

// ParseDecimal interprets ambiguous locale-formatted numeric text as a
// single canonical float. It is total over its input domain: any text
// that cannot be parsed yields 0, never an error.
//
// Examples:
//
//	ParseDecimal("1192,86")   -> 1192.86
//	ParseDecimal("1.192,86")  -> 1192.86
//	ParseDecimal("1192.86")   -> 1192.86
//	ParseDecimal("1.234.567") -> 1234567
//	ParseDecimal("abc")       -> 0
func ParseDecimal(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if m := decimalTail.FindStringSubmatch(s); m != nil {
		// Final separator is the decimal point; everything before it
		// loses its grouping separators.
		n, err := strconv.ParseFloat(separators.Replace(m[1])+"."+m[2], 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0
		}
		return n
	}

	// No decimal tail: every separator is a thousands separator.
	n, err := strconv.ParseFloat(separators.Replace(s), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

// ParseRupiah reads a whole-Rupiah amount from free text, ignoring every
// non-digit rune (grouping dots, "Rp" prefixes, spaces). Unparseable
// input yields 0.
func ParseRupiah(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatNumber renders n with id-ID thousands grouping ("." every three
// digits) and no decimal places.
func FormatNumber(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var parts []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:i]}, parts...)
	}
	out := strings.Join(parts, ".")
	if neg {
		return "-" + out
	}
	return out
}

// FormatMeter renders a meter value in its canonical display form: the
// shortest decimal representation with "," as the decimal separator.
// Re-parsing the result returns the same value.
func FormatMeter(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// FormatLiter renders a liter volume with two fixed decimals.
func FormatLiter(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
