package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeToJPG_ScalesDown(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 1600, 400), 800, 80)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestNormalizeToJPG_KeepsSmallImages(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 120, 90), 800, 0)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 90, cfg.Height)
}

func TestNormalizeToJPG_Rejects(t *testing.T) {
	_, err := NormalizeToJPG(nil, 800, 80)
	assert.Error(t, err)

	_, err = NormalizeToJPG([]byte("definitely not an image"), 800, 80)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestApplyOrientation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, marker)

	rotated := applyOrientation(src, 6)
	assert.Equal(t, image.Rect(0, 0, 2, 3), rotated.Bounds())
	assert.Equal(t, marker, rotated.At(1, 0))

	flipped := applyOrientation(src, 2)
	assert.Equal(t, src.Bounds(), flipped.Bounds())
	assert.Equal(t, marker, flipped.At(2, 0))

	assert.Same(t, src, applyOrientation(src, 1).(*image.RGBA))
}

func TestReadAllLimit(t *testing.T) {
	b, err := ReadAllLimit(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(b))

	_, err = ReadAllLimit(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
