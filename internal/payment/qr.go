package payment

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// QRPayload is the text encoded in a gcash or bank transfer QR code.
func QRPayload(method, reference string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("GIZMOHUB|%s|%s|%s|%s",
		strings.ToUpper(method), reference, amount.StringFixed(2), strings.ToUpper(currency))
}

// QRDataURL renders the payload as a PNG data URL the client can drop into an <img>.
func QRDataURL(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
