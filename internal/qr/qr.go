// SPDX-License-Identifier: Apache-2.0

// Package qr renders verification URLs as QR code images.
package qr

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the width and height of the rendered PNG in pixels.
const imageSize = 256

// Render encodes the given payload into a PNG QR image with medium error
// correction. The payload is the assignment's verification URL; the image
// is a derived artifact and can be regenerated at any time.
func Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty qr payload")
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("error encoding qr image: %w", err)
	}

	return png, nil
}
