// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/uzevently/internal/platform/migration"
)

/* TestToPgx5DSN verifies the scheme rewrite used by golang-migrate. */
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"postgres://u:p@db:5432/uz", "pgx5://u:p@db:5432/uz"},
		{"postgresql://u@db/uz?sslmode=disable", "pgx5://u@db/uz?sslmode=disable"},
		{"pgx5://db/uz", "pgx5://db/uz"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, migration.ToPgx5DSN(tc.input), tc.input)
	}
}
