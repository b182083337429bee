// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/uzevently/pkg/pagination"
)

/* TestFromRequest verifies parsing and clamping of page parameters. */
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"?page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"?page=-1&limit=500", pagination.Params{Page: 1, Limit: 20}},
		{"?page=abc", pagination.Params{Page: 1, Limit: 20}},
	}

	for _, tc := range tests {
		request := httptest.NewRequest("GET", "/bookings"+tc.query, nil)
		assert.Equal(t, tc.want, pagination.FromRequest(request), tc.query)
	}
}

/* TestWindow verifies page slicing and metadata. */
func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := pagination.Window(items, pagination.Params{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	page, _ = pagination.Window(items, pagination.Params{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, page)

	page, meta = pagination.Window(items, pagination.Params{Page: 9, Limit: 2})
	assert.Empty(t, page)
	assert.Equal(t, 5, meta.Total)
}
