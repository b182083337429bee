// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/payment"
)

/* TestFormatCardNumber verifies digit filtering, truncation and grouping. */
func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"partial group", "86", "86"},
		{"two groups", "860012", "8600 12"},
		{"strips non digits", "4111-1111 1111x1111", "4111 1111 1111 1111"},
		{"truncates to 16", "12345678901234567890", "1234 5678 9012 3456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payment.FormatCardNumber(tc.input))
		})
	}
}

/* TestFormatExpiry verifies the MM/YY rendering. */
func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"12", "12"},
		{"122", "12/2"},
		{"12/27", "12/27"},
		{"122799", "12/27"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, payment.FormatExpiry(tc.input), tc.input)
	}
}

/* TestFormatCVV verifies that CVV keeps three digits. */
func TestFormatCVV(t *testing.T) {
	assert.Equal(t, "123", payment.FormatCVV("1a2b3c4"))
	assert.Equal(t, "", payment.FormatCVV("abc"))
}

/* TestRequiresCVV verifies that Humo and Uzcard prefixes skip the CVV. */
func TestRequiresCVV(t *testing.T) {
	assert.False(t, payment.RequiresCVV("9860 1234 5678 9012"))
	assert.False(t, payment.RequiresCVV("8600123456789012"))
	assert.True(t, payment.RequiresCVV("4111 1111 1111 1111"))
	assert.True(t, payment.RequiresCVV(""))
}

/* TestCard_Masked verifies that only the last four digits remain visible. */
func TestCard_Masked(t *testing.T) {
	card := payment.Card{Number: "8600 1234 5678 9012"}
	assert.Equal(t, "**** 9012", card.Masked())
}

/* TestMockProvider_Charge verifies the deterministic approval. */
func TestMockProvider_Charge(t *testing.T) {
	provider := payment.NewMockProvider(10 * time.Millisecond)

	charge, err := provider.Charge(context.Background(), payment.Card{Number: "4111"}, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), charge.Amount)
	assert.NotEmpty(t, charge.Reference)
}

/* TestMockProvider_Cancelled verifies that shutdown interrupts the wait. */
func TestMockProvider_Cancelled(t *testing.T) {
	provider := payment.NewMockProvider(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Charge(ctx, payment.Card{}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

/* TestState_Terminal verifies which states end a payment. */
func TestState_Terminal(t *testing.T) {
	assert.False(t, payment.StateIdle.Terminal())
	assert.False(t, payment.StateProcessing.Terminal())
	assert.True(t, payment.StateSuccess.Terminal())
	assert.True(t, payment.StateError.Terminal())
}
