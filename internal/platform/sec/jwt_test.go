// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/sec"
)

func TestClientTokens_RoundTrip(t *testing.T) {
	tokens, err := sec.NewClientTokens("0123456789abcdef-secret", "uzevently.uz", time.Hour)
	require.NoError(t, err)

	clientID, token, err := tokens.Issue()
	require.NoError(t, err)

	verified, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, verified)
}

func TestClientTokens_Rejects(t *testing.T) {
	tokens, err := sec.NewClientTokens("0123456789abcdef-secret", "uzevently.uz", time.Hour)
	require.NoError(t, err)
	other, err := sec.NewClientTokens("another-secret-of-length", "uzevently.uz", time.Hour)
	require.NoError(t, err)
	expired, err := sec.NewClientTokens("0123456789abcdef-secret", "uzevently.uz", -time.Minute)
	require.NoError(t, err)

	_, foreign, err := other.Issue()
	require.NoError(t, err)
	_, stale, err := expired.Issue()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong_secret", foreign},
		{"expired", stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestNewClientTokens_ShortSecret(t *testing.T) {
	_, err := sec.NewClientTokens("short", "uzevently.uz", time.Hour)
	assert.Error(t, err)
}
