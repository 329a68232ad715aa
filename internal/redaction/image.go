package redaction

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

func decodeImage(r io.Reader, fileType string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch fileType {
	case "png":
		img, err = png.Decode(r)
	case "jpg", "jpeg":
		img, err = jpeg.Decode(r)
	case "tif", "tiff":
		img, err = tiff.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: image type %q", ErrUnredactable, fileType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnredactable, fileType, err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// blackout copies img and fills each box in black. Boxes are clipped to
// the image bounds.
func blackout(img image.Image, boxes []image.Rectangle) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	for _, box := range boxes {
		draw.Draw(out, box.Intersect(b), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return out
}
