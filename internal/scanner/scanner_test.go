package scanner

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/boleto-line-reader/internal/logger"
)

type fakeDecoder struct {
	payloads []string
	got      image.Image
}

func (f *fakeDecoder) Decode(_ context.Context, img image.Image) ([]string, error) {
	f.got = img
	return f.payloads, nil
}

func blankImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestZXingDecodesITFBarcode(t *testing.T) {
	const code = "23799989300000035000131090000000422665215281"

	matrix, err := oned.NewITFWriter().Encode(code, gozxing.BarcodeFormat_ITF, 1000, 120, nil)
	require.NoError(t, err)

	payloads, err := NewZXing(logger.Discard()).Decode(context.Background(), matrix)
	require.NoError(t, err)

	first, ok := FirstPayload(payloads)
	require.True(t, ok)
	assert.Equal(t, code, first)
}

func TestZXingBlankImage(t *testing.T) {
	payloads, err := NewZXing(logger.Discard()).Decode(context.Background(), blankImage(200, 80))
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestZXingHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewZXing(logger.Discard()).Decode(ctx, blankImage(50, 50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	img := blankImage(40, 20)
	img.Set(0, 0, color.Black)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	fake := &fakeDecoder{payloads: []string{"8171"}}
	payloads, err := DecodeFile(context.Background(), fake, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"8171"}, payloads)
	require.NotNil(t, fake.got)
	assert.Equal(t, 40, fake.got.Bounds().Dx())
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeDecoder{}

	_, err := DecodeFile(context.Background(), fake, filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	notImage := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(notImage, []byte("not an image"), 0o644))
	_, err = DecodeFile(context.Background(), fake, notImage)
	assert.Error(t, err)
	assert.Nil(t, fake.got)
}

func TestFirstPayload(t *testing.T) {
	tests := []struct {
		name     string
		payloads []string
		want     string
		wantOK   bool
	}{
		{name: "none", payloads: nil},
		{name: "only blanks", payloads: []string{"", "  "}},
		{name: "skips blanks", payloads: []string{" ", "abc", "def"}, want: "abc", wantOK: true},
		{name: "trims", payloads: []string{" 123 "}, want: "123", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstPayload(tt.payloads)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
