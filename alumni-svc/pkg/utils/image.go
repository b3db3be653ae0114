package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format (jpeg/png/webp)")

// ImageExtensions are the upload extensions NormalizeToJPG can decode.
var ImageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// NormalizeToJPG decodes a jpeg, png or webp image, applies its EXIF
// orientation, scales it down to maxWidth (0 keeps the size) and re-encodes
// it as JPEG.
func NormalizeToJPG(input []byte, maxWidth, quality int) ([]byte, error) {
	if len(input) == 0 {
		return nil, errors.New("empty image")
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	img, format, err := decodeImage(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	if format == "jpeg" {
		img = applyOrientation(img, exifOrientation(bytes.NewReader(input)))
	}
	if maxWidth > 0 {
		img = scaleToWidth(img, maxWidth)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func decodeImage(r *bytes.Reader) (image.Image, string, error) {
	decoders := []struct {
		format string
		decode func(io.Reader) (image.Image, error)
	}{
		{"jpeg", jpeg.Decode},
		{"png", png.Decode},
		{"webp", webp.Decode},
	}
	for _, d := range decoders {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, "", err
		}
		if img, err := d.decode(r); err == nil {
			return img, d.format, nil
		}
	}
	return nil, "", ErrUnsupportedImage
}

func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	ori, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return ori
}

// applyOrientation undoes EXIF orientation values 2..8.
func applyOrientation(src image.Image, ori int) image.Image {
	switch ori {
	case 2:
		return remap(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, y })
	case 3:
		return remap(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4:
		return remap(src, false, func(x, y, w, h int) (int, int) { return x, h - 1 - y })
	case 5:
		return remap(src, true, func(x, y, w, h int) (int, int) { return y, x })
	case 6:
		return remap(src, true, func(x, y, w, h int) (int, int) { return h - 1 - y, x })
	case 7:
		return remap(src, true, func(x, y, w, h int) (int, int) { return h - 1 - y, w - 1 - x })
	case 8:
		return remap(src, true, func(x, y, w, h int) (int, int) { return y, w - 1 - x })
	default:
		return src
	}
}

// remap copies every source pixel to the position returned by to.
// swap is set for the orientations that exchange width and height.
func remap(src image.Image, swap bool, to func(x, y, w, h int) (int, int)) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rect := image.Rect(0, 0, w, h)
	if swap {
		rect = image.Rect(0, 0, h, w)
	}
	dst := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := to(x, y, w, h)
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func scaleToWidth(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW || w <= 0 || h <= 0 {
		return src
	}

	newH := int(math.Round(float64(h) * float64(maxW) / float64(w)))
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
