// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package receipt_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/receipt"
)

func sample(kind booking.Kind) receipt.Confirmation {
	return receipt.Confirmation{
		Slot:      booking.Slot{Kind: kind, TargetID: 12, Day: booking.NewDay(2030, time.March, 4)},
		Name:      "Room 12",
		Type:      "Deluxe",
		Price:     "$150/night",
		Capacity:  "4 guests",
		Reference: "MOCK-1",
		Holder:    "Ali Valiyev",
		BookedAt:  time.Date(2030, time.March, 1, 9, 30, 0, 0, time.UTC),
	}
}

/* TestConfirmation_Filename verifies the download file name. */
func TestConfirmation_Filename(t *testing.T) {
	assert.Equal(t, "booking_confirmation_room_12_2030-03-04.pdf", sample(booking.KindRoom).Filename())
	assert.Equal(t, "booking_confirmation_venue_12_2030-03-04.pdf", sample(booking.KindVenue).Filename())
}

/* TestPDFRenderer_Render verifies that a valid PDF document is produced. */
func TestPDFRenderer_Render(t *testing.T) {
	renderer := receipt.NewPDFRenderer(time.UTC)

	for _, kind := range []booking.Kind{booking.KindRoom, booking.KindVenue} {
		t.Run(string(kind), func(t *testing.T) {
			content, err := renderer.Render(sample(kind))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
			assert.Contains(t, string(bytes.TrimSpace(content)), "%%EOF")
		})
	}
}

/* TestPDFRenderer_PrintsDetails verifies the booking details land in the document. */
func TestPDFRenderer_PrintsDetails(t *testing.T) {
	content, err := receipt.NewPDFRenderer(time.UTC).Render(sample(booking.KindRoom))
	require.NoError(t, err)

	for _, line := range []string{
		"Nomi: Room 12",
		"Sana: Mon Mar 04 2030",
		"Karta egasi: Ali Valiyev",
		"To'lov raqami: MOCK-1",
	} {
		assert.Contains(t, string(content), line)
	}
}

/* TestPDFRenderer_OmitsEmptyHolder verifies no holder line is printed without a name. */
func TestPDFRenderer_OmitsEmptyHolder(t *testing.T) {
	confirmation := sample(booking.KindVenue)
	confirmation.Holder = ""

	content, err := receipt.NewPDFRenderer(time.UTC).Render(confirmation)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Karta egasi")
}
