// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/booking"
)

/*
TestSQLiteStore_Contract verifies the SQLite adapter enforces one record per
slot and round-trips days.
*/
func TestSQLiteStore_Contract(t *testing.T) {
	ctx := context.Background()

	store, err := booking.OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "bookings.db"))
	require.NoError(t, err)
	defer store.Close()

	day := booking.NewDay(2025, time.August, 1)
	record := booking.Record{Slot: room(3, day), CreatedAt: time.Now().UTC()}

	// 1. Insert then exists
	require.NoError(t, store.Insert(ctx, record))
	found, err := store.Exists(ctx, record.Slot)
	require.NoError(t, err)
	assert.True(t, found)

	// 2. Duplicate
	assert.ErrorIs(t, store.Insert(ctx, record), booking.ErrAlreadyBooked)

	// 3. Other day
	found, err = store.Exists(ctx, room(3, booking.NewDay(2025, time.August, 2)))
	require.NoError(t, err)
	assert.False(t, found)

	// 4. Filtered list
	require.NoError(t, store.Insert(ctx, booking.Record{
		Slot:      booking.Slot{Kind: booking.KindVenue, TargetID: 3, Day: day},
		CreatedAt: time.Now().UTC(),
	}))
	records, err := store.List(ctx, booking.Filter{Kind: booking.KindRoom, Day: day})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Slot, records[0].Slot)
}
