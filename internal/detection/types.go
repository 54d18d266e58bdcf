package detection

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrSampling is wrapped by every dominant-color sampling failure.
	ErrSampling = errors.New("dominant color sampling failed")

	// ErrDegenerate reports a bounding box with a non-positive width or height.
	ErrDegenerate = errors.New("degenerate bounding box")
)

// BoundingBox is an axis-aligned box in image pixel coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// EndX returns the exclusive right edge of the box.
func (b BoundingBox) EndX() int { return b.X + b.Width }

// EndY returns the exclusive bottom edge of the box.
func (b BoundingBox) EndY() int { return b.Y + b.Height }

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.EndX(), b.EndY())
}

// Validate returns ErrDegenerate when the box has no area.
func (b BoundingBox) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d at (%d,%d)", ErrDegenerate, b.Width, b.Height, b.X, b.Y)
	}
	return nil
}

// BoxFromRect converts an image.Rectangle to a BoundingBox.
func BoxFromRect(r image.Rectangle) BoundingBox {
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// DominantColor is an approximate representative color of a pixel region.
//
// It is produced by downsampling the region to a single pixel, so it is closer
// to an average than to a histogram mode.
type DominantColor struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

// Group is the conversational side a rectangle belongs to.
type Group string

const (
	GroupLeft  Group = "LEFT"
	GroupRight Group = "RIGHT"
	GroupNone  Group = "NONE"
)

// Rectangle is a line-level text region, the pipeline's working unit.
//
// Group stays empty until the rectangle survives overlap resolution.
type Rectangle struct {
	BoundingBox
	Group Group `json:"group"`
}

// Record is the flattened form of a labeled rectangle handed to consumers
// such as the overlay renderer or the text-recognition engine.
type Record struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	EndX   int   `json:"end_x"`
	Group  Group `json:"group"`
}

// Record flattens the rectangle.
func (r Rectangle) Record() Record {
	return Record{
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		EndX:   r.EndX(),
		Group:  r.Group,
	}
}

// Ordering selects how the final rectangle sequence is ordered.
type Ordering string

const (
	// OrderVisual sorts rectangles top-to-bottom before overlap resolution.
	OrderVisual Ordering = "visual"

	// OrderReverse keeps contour order through overlap resolution and
	// reverses the whole sequence at the end.
	OrderReverse Ordering = "reverse"
)

// Params holds every tuned threshold of the pipeline.
type Params struct {
	MinWidth          int      `yaml:"min_width"`
	MinHeight         int      `yaml:"min_height"`
	HeightDivisor     float64  `yaml:"height_divisor"`
	MinAspect         float64  `yaml:"min_aspect"`
	SquareAspect      float64  `yaml:"square_aspect"`
	WhiteChannel      uint8    `yaml:"white_channel"`
	GraySpread        int      `yaml:"gray_channel_spread"`
	FullWidthSlack    int      `yaml:"full_width_slack"`
	DividerTopMargin  int      `yaml:"divider_top_margin"`
	DividerBrightness uint8    `yaml:"divider_brightness"`
	DividerRun        int      `yaml:"divider_run"`
	DividerSpacing    int      `yaml:"divider_spacing"`
	ReferenceWidth    float64  `yaml:"reference_width"`
	MarginBase        float64  `yaml:"margin_base"`
	Ordering          Ordering `yaml:"ordering"`
}

// DefaultParams returns the thresholds tuned for two-column chat screenshots.
func DefaultParams() Params {
	return Params{
		MinWidth:          50,
		MinHeight:         10,
		HeightDivisor:     12,
		MinAspect:         1.0 / 3.0,
		SquareAspect:      1.3,
		WhiteChannel:      240,
		GraySpread:        60,
		FullWidthSlack:    10,
		DividerTopMargin:  10,
		DividerBrightness: 241,
		DividerRun:        15,
		DividerSpacing:    15,
		ReferenceWidth:    150,
		MarginBase:        25,
		Ordering:          OrderVisual,
	}
}

// Validate checks that the thresholds can drive the pipeline.
func (p Params) Validate() error {
	switch {
	case p.MinWidth <= 0 || p.MinHeight <= 0:
		return fmt.Errorf("min_width and min_height must be positive")
	case p.HeightDivisor <= 0:
		return fmt.Errorf("height_divisor must be positive")
	case p.ReferenceWidth <= 0:
		return fmt.Errorf("reference_width must be positive")
	case p.DividerRun <= 0:
		return fmt.Errorf("divider_run must be positive")
	case p.DividerTopMargin < 0 || p.DividerSpacing < 0:
		return fmt.Errorf("divider_top_margin and divider_spacing must not be negative")
	}
	switch p.Ordering {
	case OrderVisual, OrderReverse:
	default:
		return fmt.Errorf("unknown ordering %q", p.Ordering)
	}
	return nil
}

// sliverThreshold is the minimum height, exclusive, of a text line for an
// image of the given width.
func (p Params) sliverThreshold(imageWidth int) float64 {
	return float64(imageWidth) / p.HeightDivisor
}
