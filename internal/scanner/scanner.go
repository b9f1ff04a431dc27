// =============================================================================
// Boleto Line Reader - Optical Scanner
// =============================================================================
//
// This module turns an image into zero or more decoded payload strings. The
// decoding core never looks at pixels; it only receives the payloads and
// dispatches the first non-empty one.
//
// READERS:
//   Payment slips print their barcode as Interleaved 2 of 5 (ITF). Code 128
//   and QR codes are tried as well so PIX QR codes and other labels come back
//   as unrecognized payloads instead of "nothing detected".
//
// =============================================================================

package scanner

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"log/slog"
	"os"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder extracts payload strings from an image.
type Decoder interface {
	Decode(ctx context.Context, img image.Image) ([]string, error)
}

// =============================================================================
// ZXING DECODER
// =============================================================================

type namedReader struct {
	name   string
	reader gozxing.Reader
}

// ZXing decodes ITF, Code 128 and QR symbols with gozxing.
type ZXing struct {
	readers []namedReader
	hints   map[gozxing.DecodeHintType]interface{}
	logger  *slog.Logger
}

// NewZXing returns a decoder trying every supported symbology in turn.
func NewZXing(logger *slog.Logger) *ZXing {
	return &ZXing{
		readers: []namedReader{
			{name: "itf", reader: oned.NewITFReader()},
			{name: "code128", reader: oned.NewCode128Reader()},
			{name: "qrcode", reader: qrcode.NewQRCodeReader()},
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
		logger: logger,
	}
}

// Decode returns the payload of every symbology that recognized the image.
// An image with no readable symbol yields an empty slice and no error.
func (z *ZXing) Decode(ctx context.Context, img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	var payloads []string
	for _, r := range z.readers {
		if err := ctx.Err(); err != nil {
			return payloads, err
		}

		result, err := r.reader.Decode(bmp, z.hints)
		r.reader.Reset()
		if err != nil {
			z.logger.Debug("reader found nothing", "reader", r.name, "err", err)
			continue
		}

		z.logger.Debug("reader decoded symbol", "reader", r.name, "format", result.GetBarcodeFormat().String())
		payloads = append(payloads, result.GetText())
	}

	return payloads, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// DecodeFile opens an image file and runs it through d.
func DecodeFile(ctx context.Context, d Decoder, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return d.Decode(ctx, img)
}

// FirstPayload returns the first payload that is not blank.
func FirstPayload(payloads []string) (string, bool) {
	for _, p := range payloads {
		if p = strings.TrimSpace(p); p != "" {
			return p, true
		}
	}
	return "", false
}
