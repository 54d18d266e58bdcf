package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createQuadrantImage creates an image with a different color in each quadrant
func createQuadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCropRegion(t *testing.T) {
	img := createQuadrantImage(100, 100)

	cropped, err := CropRegion(img, image.Rect(50, 0, 100, 50), 1.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds = %v, want (0,0)-(50,50)", cropped.Bounds())
	}
	if got := cropped.NRGBAAt(10, 10); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("pixel = %v, want green", got)
	}
}

func TestCropRegion_Scale(t *testing.T) {
	img := createQuadrantImage(100, 100)

	cropped, err := CropRegion(img, image.Rect(0, 0, 40, 20), 2.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds().Dx() != 80 || cropped.Bounds().Dy() != 40 {
		t.Errorf("scaled size = %dx%d, want 80x40", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropRegion_Invalid(t *testing.T) {
	img := createQuadrantImage(100, 100)

	tests := []struct {
		name string
		r    image.Rectangle
	}{
		{"outside", image.Rect(50, 50, 150, 80)},
		{"negative", image.Rect(-10, 0, 20, 20)},
		{"empty", image.Rect(10, 10, 10, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRegion(img, tt.r, 1.0); err == nil {
				t.Errorf("CropRegion(%v) should fail", tt.r)
			}
		})
	}
}

func TestEncodeBase64PNG(t *testing.T) {
	img := createQuadrantImage(30, 20)

	enc, err := EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("EncodeBase64PNG failed: %v", err)
	}
	if enc.Width != 30 || enc.Height != 20 || enc.MimeType != "image/png" {
		t.Errorf("unexpected metadata: %+v", enc)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 30 {
		t.Errorf("decoded width = %d, want 30", decoded.Bounds().Dx())
	}
}
