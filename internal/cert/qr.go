package cert

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the logical pixel size of the verification image.
const QRSize = 256

// VerificationPNG encodes payload as a QR code with medium error correction.
// The decode/re-encode pass guarantees the embedded image is a plain
// deterministic PNG raster every PDF viewer renders the same way, whatever
// the encoding library emitted.
func VerificationPNG(payload string) ([]byte, error) {
	raw, err := qrcode.Encode(payload, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("normalize qr: %w", err)
	}
	b := img.Bounds()
	norm := image.NewNRGBA(b)
	draw.Draw(norm, b, img, b.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, norm); err != nil {
		return nil, fmt.Errorf("normalize qr: %w", err)
	}
	return buf.Bytes(), nil
}
