package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/chat-ocr/internal/detection"
)

// Palette maps each side label to its overlay color.
type Palette map[detection.Group]colorful.Color

// DefaultPalette draws LEFT in blue, RIGHT in green and NONE in red.
func DefaultPalette() Palette {
	return Palette{
		detection.GroupLeft:  colorful.Color{R: 0, G: 0, B: 1},
		detection.GroupRight: colorful.Color{R: 0, G: 0.5, B: 0},
		detection.GroupNone:  colorful.Color{R: 1, G: 0, B: 0},
	}
}

// ParsePalette builds a palette from "#RRGGBB" colors. Empty strings keep
// the default color for that side.
func ParsePalette(left, right, none string) (Palette, error) {
	p := DefaultPalette()
	for group, hex := range map[detection.Group]string{
		detection.GroupLeft:  left,
		detection.GroupRight: right,
		detection.GroupNone:  none,
	} {
		if hex == "" {
			continue
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid %s overlay color %q: %w", group, hex, err)
		}
		p[group] = c
	}
	return p, nil
}

func (p Palette) colorOf(g detection.Group) color.RGBA {
	c, ok := p[g]
	if !ok {
		c = colorful.Color{R: 1, G: 0, B: 1}
	}
	r, gr, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: gr, B: b, A: 255}
}

const (
	// strokeWidth is the outline thickness in pixels.
	strokeWidth = 2
	// labelOffset is the distance from a rectangle edge to a label baseline.
	labelOffset = 16
)

// DrawOverlay returns a copy of img with every rectangle outlined in its
// group color. The group name is written above each rectangle and its
// (x, y, endX) coordinates below it.
func DrawOverlay(img image.Image, rects []detection.Rectangle, palette Palette) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	for _, r := range rects {
		c := palette.colorOf(r.Group)
		box := r.Rect().Add(bounds.Min)
		strokeRect(result, box, c)

		drawLabel(result, face, box.Min.X, box.Min.Y-labelOffset, string(r.Group), c)
		drawLabel(result, face, box.Min.X, box.Max.Y+labelOffset,
			fmt.Sprintf("(%d, %d, %d)", r.X, r.Y, r.EndX()), c)
	}
	return result
}

// RenderOverlay draws the overlay and encodes it as base64 PNG.
func RenderOverlay(img image.Image, rects []detection.Rectangle, palette Palette) (*EncodedImage, error) {
	return EncodeBase64PNG(DrawOverlay(img, rects, palette))
}

// strokeRect draws the outline of r, strokeWidth pixels thick, inside r.
// Parts outside the image are clipped.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+strokeWidth),
		image.Rect(r.Min.X, r.Max.Y-strokeWidth, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+strokeWidth, r.Max.Y),
		image.Rect(r.Max.X-strokeWidth, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel writes text with its baseline at y. Glyphs outside the image
// are clipped by the drawer.
func drawLabel(img *image.RGBA, face font.Face, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
