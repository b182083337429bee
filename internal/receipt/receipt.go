// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package receipt renders the downloadable booking confirmation.

The document is an A4 PDF produced with go-pdf/fpdf. Text is kept to plain
ASCII so the built-in core fonts can render it without embedding a font file.
*/
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/taibuivan/uzevently/internal/booking"
)

// ContentType is the MIME type of rendered receipts.
const ContentType = "application/pdf"

// # Confirmation

// Confirmation is everything printed on a receipt.
type Confirmation struct {
	Slot      booking.Slot
	Name      string
	Type      string
	Price     string
	Capacity  string
	Reference string
	Holder    string
	BookedAt  time.Time
}

// Filename returns booking_confirmation_<kind>_<id>_<yyyy-mm-dd>.pdf.
func (confirmation Confirmation) Filename() string {
	return fmt.Sprintf("booking_confirmation_%s_%d_%s.pdf",
		confirmation.Slot.Kind, confirmation.Slot.TargetID, confirmation.Slot.Day.ISO())
}

// Renderer turns a confirmation into a document.
type Renderer interface {
	Render(confirmation Confirmation) ([]byte, error)
}

// # PDF Layout

const (
	pageWidth   = 210.0
	marginLeft  = 20.0
	stampedAt   = "2006-01-02 15:04:05 MST"
	issuedOnFmt = "2006-01-02"
)

var (
	colorBlue  = [3]int{0, 102, 204}
	colorGrey  = [3]int{220, 220, 220}
	colorGreen = [3]int{0, 128, 0}
)

// Contact lines printed on every receipt.
const (
	supportEmail = "support@uzevently.uz"
	supportPhone = "+998 99 449 49 16"
	signatory    = "Ra'no Tashpulatova - Bosh menejer"
	disclaimer   = "Qonuniy ogohlantiruv: Uzevently kompaniyasi ushbu hujjatni qonuniy ravishda tasdiqlaydi. " +
		"Ushbu hujjat faqat band qilish ma'lumotlarini aks ettiradi va qaytarish yoki o'zgartirish uchun " +
		"qo'shimcha shartlarga rioya qilish kerak."
)

// PDFRenderer renders receipts as A4 PDF documents.
type PDFRenderer struct {
	location *time.Location
}

// NewPDFRenderer constructs a [PDFRenderer]. Timestamps are printed in
// location.
func NewPDFRenderer(location *time.Location) *PDFRenderer {
	if location == nil {
		location = time.UTC
	}
	return &PDFRenderer{location: location}
}

/*
Render draws the confirmation document.

Description: Stamp, blue header band, booking details, thank-you lines,
contact block, legal disclaimer and footer band, top to bottom.

Returns:
  - []byte: The PDF bytes
  - error: Any layout or encoding failure
*/
func (renderer *PDFRenderer) Render(confirmation Confirmation) ([]byte, error) {
	bookedAt := confirmation.BookedAt.In(renderer.location)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(confirmation.Filename(), false)
	pdf.SetAuthor("Uzevently", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(false)
	pdf.AddPage()

	// ── 1. Stamp ──────────────────────────────────────────────────────────

	setFill(pdf, colorGrey)
	pdf.Circle(30, 20, 15, "F")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	centeredAt(pdf, 30, 19, "Uzevently")
	centeredAt(pdf, 30, 24, "Tasdiq")

	// ── 2. Header Band ────────────────────────────────────────────────────

	setFill(pdf, colorBlue)
	pdf.Rect(0, 40, pageWidth, 24, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	centeredAt(pdf, pageWidth/2, 51, "Uzevently - "+title(confirmation.Slot.Kind))
	pdf.SetFont("Helvetica", "", 11)
	centeredAt(pdf, pageWidth/2, 59, "Sanasi: "+bookedAt.Format(stampedAt))

	// ── 3. Booking Details ────────────────────────────────────────────────

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, 80, title(confirmation.Slot.Kind))
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(marginLeft, 85, 190, 85)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Nomi: " + confirmation.Name,
		"Turi: " + confirmation.Type,
		"Sana: " + confirmation.Slot.Day.String(),
		"Narx: " + confirmation.Price,
		"Sig'im: " + confirmation.Capacity,
		"Band qilish vaqti: " + bookedAt.Format(stampedAt),
	}
	if confirmation.Holder != "" {
		lines = append(lines, "Karta egasi: "+confirmation.Holder)
	}
	if confirmation.Reference != "" {
		lines = append(lines, "To'lov raqami: "+confirmation.Reference)
	}
	y := 95.0
	for _, line := range lines {
		pdf.Text(marginLeft, y, line)
		y += 8
	}

	// ── 4. Thank-you Lines ────────────────────────────────────────────────

	y += 6
	setText(pdf, colorGreen)
	pdf.Text(marginLeft, y, "Rahmat mijozimiz bo'lgani uchun!")
	pdf.Text(marginLeft, y+8, "Uzevently bilan dam oling!")

	// ── 5. Contact & Disclaimer ───────────────────────────────────────────

	pdf.SetTextColor(0, 0, 0)
	pdf.Text(marginLeft, 190, "Qo'shimcha ma'lumotlar uchun:")
	pdf.Text(marginLeft, 200, "Email: "+supportEmail)
	pdf.Text(marginLeft, 210, "Telefon: "+supportPhone)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, 216)
	pdf.MultiCell(170, 5, disclaimer, "", "L", false)

	// ── 6. Footer Band ────────────────────────────────────────────────────

	setFill(pdf, colorBlue)
	pdf.Rect(0, 250, pageWidth, 24, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, 260, signatory)
	pdf.Text(marginLeft, 268, "Tasdiqlash sanasi: "+bookedAt.Format(issuedOnFmt))

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("receipt_render_failed: %w", err)
	}
	return buffer.Bytes(), nil
}

func title(kind booking.Kind) string {
	if kind == booking.KindVenue {
		return "Joy Bandligi Tasdig'i"
	}
	return "Xona Bandligi Tasdig'i"
}

// centeredAt writes text horizontally centred on x with its baseline at y.
func centeredAt(pdf *fpdf.Fpdf, x, y float64, text string) {
	pdf.Text(x-pdf.GetStringWidth(text)/2, y, text)
}

func setFill(pdf *fpdf.Fpdf, rgb [3]int) {
	pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
}

func setText(pdf *fpdf.Fpdf, rgb [3]int) {
	pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
}
