package layout

import (
	"fmt"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/skip2/go-qrcode"
)

// Code128 renders value as a Code 128 barcode of w×h pixels
func Code128(value string, w, h int) (*Image, error) {
	if value == "" {
		return nil, fmt.Errorf("barcode value is empty")
	}

	bc, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}

	scaled, err := barcode.Scale(bc, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	return NewImage("barcode", scaled)
}

// QRCode renders content as a square QR code of size pixels
func QRCode(content string, size int) (*Image, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode content is empty")
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qrcode: %w", err)
	}

	return NewImage("qrcode", qr.Image(size))
}
