package billing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var (
	ErrReceiptFormat    = errors.New("invalid receipt code")
	ErrReceiptSignature = errors.New("invalid receipt signature")
)

// Signer signs receipt codes with a shared secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

// Payload returns reservationID|total|issuedAt|signature.
func (s Signer) Payload(reservationID string, total float64, issuedAt time.Time) string {
	data := fmt.Sprintf("%s|%.2f|%d", reservationID, total, issuedAt.Unix())
	return data + "|" + s.sign(data)
}

func (s Signer) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ReceiptCode is a verified QR payload.
type ReceiptCode struct {
	ReservationID string
	Total         float64
	IssuedAt      time.Time
}

// Verify checks a payload produced by Payload. Receipts do not expire.
func (s Signer) Verify(payload string) (ReceiptCode, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 4 || parts[0] == "" {
		return ReceiptCode{}, ErrReceiptFormat
	}
	total, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return ReceiptCode{}, fmt.Errorf("total %q: %w", parts[1], ErrReceiptFormat)
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return ReceiptCode{}, fmt.Errorf("timestamp %q: %w", parts[2], ErrReceiptFormat)
	}
	data := strings.Join(parts[:3], "|")
	if !hmac.Equal([]byte(parts[3]), []byte(s.sign(data))) {
		return ReceiptCode{}, ErrReceiptSignature
	}
	return ReceiptCode{ReservationID: parts[0], Total: total, IssuedAt: time.Unix(ts, 0)}, nil
}

// ReceiptPDF renders the bill as a one page A4 receipt with a signed QR code.
func ReceiptPDF(b Bill, s Signer, hotel string, issuedAt time.Time) ([]byte, error) {
	qrPNG, err := qrcode.Encode(s.Payload(b.ReservationID, b.Total, issuedAt), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, hotel)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Receipt issued "+issuedAt.Format("2006-01-02 15:04"))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	rows := [][2]string{
		{"Guest", b.Guest},
		{"Room", b.RoomName},
		{"Room number", b.RoomNumber},
		{"Check-in", b.CheckIn.Format(dateLayout)},
		{"Check-out", b.CheckOut.Format(dateLayout)},
		{"Nights", strconv.Itoa(b.Nights)},
		{"Rate per night", Money(b.Rate)},
		{"Subtotal", Money(b.Subtotal)},
		{fmt.Sprintf("HST (%.0f%%)", b.TaxRate*100), Money(b.Tax)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(60, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, Money(b.Total), "T", 1, "L", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
