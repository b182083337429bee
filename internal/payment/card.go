// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import "strings"

// # Limits

const (
	cardNumberDigits = 16
	expiryDigits     = 4
	cvvDigits        = 3
)

// Humo and Uzcard cards carry no CVV.
var noCVVPrefixes = []string{"9860", "8600"}

// FormatCardNumber keeps at most 16 digits and groups them by four.
func FormatCardNumber(value string) string {
	digits := truncate(onlyDigits(value), cardNumberDigits)

	var builder strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			builder.WriteByte(' ')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// FormatExpiry keeps at most 4 digits and renders them as MM/YY once the
// month is complete.
func FormatExpiry(value string) string {
	digits := truncate(onlyDigits(value), expiryDigits)
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// FormatCVV keeps at most 3 digits.
func FormatCVV(value string) string {
	return truncate(onlyDigits(value), cvvDigits)
}

// RequiresCVV reports whether the card scheme uses a CVV field.
func RequiresCVV(cardNumber string) bool {
	digits := onlyDigits(cardNumber)
	for _, prefix := range noCVVPrefixes {
		if strings.HasPrefix(digits, prefix) {
			return false
		}
	}
	return true
}

func onlyDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

func truncate(digits string, n int) string {
	if len(digits) > n {
		return digits[:n]
	}
	return digits
}
