// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package phone normalizes Uzbek mobile numbers.
//
// # Format
//
// The local segment is exactly 9 digits, displayed in 2-3-2-2 groups
// ("90 123 45 67") and transmitted as "+998" followed by the digits.
package phone

import (
	"strings"

	"github.com/taibuivan/uzevently/internal/platform/constants"
)

// groups is the display grouping of the local segment.
var groups = [...]int{2, 3, 2, 2}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Format truncates the digits of s to 9 and groups them 2-3-2-2.
// Partial input is grouped as far as it goes.
func Format(s string) string {
	digits := Digits(s)
	if len(digits) > constants.PhoneLocalDigits {
		digits = digits[:constants.PhoneLocalDigits]
	}

	parts := make([]string, 0, len(groups))
	for _, size := range groups {
		if digits == "" {
			break
		}
		if size > len(digits) {
			size = len(digits)
		}
		parts = append(parts, digits[:size])
		digits = digits[size:]
	}
	return strings.Join(parts, " ")
}

// Full returns the canonical transmitted form of a local segment.
func Full(s string) string {
	return constants.PhoneCountryPrefix + Digits(s)
}

// Valid reports whether s holds exactly 9 digits once separators are removed.
func Valid(s string) bool {
	return len(Digits(s)) == constants.PhoneLocalDigits
}
