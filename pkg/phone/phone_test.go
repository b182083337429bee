// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/uzevently/pkg/phone"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "901234567", "90 123 45 67"},
		{"truncated", "90123456789", "90 123 45 67"},
		{"with_separators", "(90) 123-45-67", "90 123 45 67"},
		{"partial", "90123", "90 123"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Format(tt.input))
		})
	}
}

func TestFullAndValid(t *testing.T) {
	assert.Equal(t, "+998901234567", phone.Full("90 123 45 67"))
	assert.True(t, phone.Valid("90 123 45 67"))
	assert.False(t, phone.Valid("9012345"))
	assert.False(t, phone.Valid("9012345678"))
}
