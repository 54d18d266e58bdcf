package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/disintegration/imaging"
)

// Contour is an outline produced by an edge detector. Only its bounding box
// is consumed; the pixels it encloses are read from the image.
type Contour interface {
	Box() BoundingBox
}

// Box lets a BoundingBox be used directly as a Contour.
func (b BoundingBox) Box() BoundingBox { return b }

// ColorSampler approximates the dominant color of a pixel region.
//
// Implementations may block, and a failure must wrap ErrSampling.
type ColorSampler interface {
	Sample(ctx context.Context, region image.Image) (DominantColor, error)
}

// Detector runs the full region pipeline over one image at a time.
type Detector struct {
	Params  Params
	Sampler ColorSampler
	Logger  *slog.Logger
}

// NewDetector creates a Detector that samples dominant colors with sampler.
func NewDetector(params Params, sampler ColorSampler) *Detector {
	return &Detector{
		Params:  params,
		Sampler: sampler,
		Logger:  slog.Default(),
	}
}

// Detect turns the contours of img into labeled line rectangles.
//
// Contours are processed one at a time in the order given. A contour whose
// color sample fails is logged and skipped; it never aborts the image. The
// only errors returned are a missing sampler, invalid parameters and a done
// ctx. The result may be empty.
//
// With OrderVisual the rectangles are returned top-to-bottom. With
// OrderReverse the contour order is kept through overlap resolution and the
// whole sequence is reversed at the end.
func (d *Detector) Detect(ctx context.Context, img image.Image, contours []Contour) ([]Rectangle, error) {
	if d.Sampler == nil {
		return nil, fmt.Errorf("detector has no color sampler")
	}
	if err := d.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection params: %w", err)
	}
	logger := d.logger()

	bounds := img.Bounds()
	imageWidth := bounds.Dx()

	var candidates []Rectangle
	for i, c := range contours {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines, err := d.candidateLines(ctx, img, c.Box(), imageWidth)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping contour", "index", i, "box", c.Box(), "err", err)
			continue
		}
		candidates = append(candidates, lines...)
	}

	if d.Params.Ordering == OrderVisual {
		sortTopToBottom(candidates)
	}

	rects := ResolveOverlaps(candidates)
	for i := range rects {
		rects[i].Group = d.Params.Classify(rects[i].BoundingBox, imageWidth)
	}

	if d.Params.Ordering == OrderReverse {
		reverse(rects)
	}

	logger.Debug("Detected text regions",
		"contours", len(contours),
		"candidates", len(candidates),
		"regions", len(rects))
	return rects, nil
}

// candidateLines samples and filters one contour and splits an accepted
// candidate into line rectangles. Lines are split from the part of the box
// that lies inside the image.
// A rejected contour yields no rectangles and no error; a failed sample
// yields an error wrapping ErrSampling.
func (d *Detector) candidateLines(ctx context.Context, img image.Image, box BoundingBox, imageWidth int) ([]Rectangle, error) {
	if err := box.Validate(); err != nil {
		d.logger().Debug("Rejected contour", "box", box, "reason", RejectDegenerate.String())
		return nil, nil
	}

	bounds := img.Bounds()
	area := box.Rect().Add(bounds.Min).Intersect(bounds)
	if area.Empty() {
		return nil, nil
	}
	region := imaging.Crop(img, area)

	c, err := d.Sampler.Sample(ctx, region)
	if err != nil {
		if !errors.Is(err, ErrSampling) {
			err = fmt.Errorf("%w: %w", ErrSampling, err)
		}
		return nil, err
	}

	if verdict := d.Params.Filter(box, imageWidth, c); verdict != Accept {
		d.logger().Debug("Rejected contour", "box", box, "reason", verdict.String())
		return nil, nil
	}

	dividers := d.Params.FindDividers(Luminance(region))
	return d.Params.SplitLines(BoxFromRect(area.Sub(bounds.Min)), dividers, imageWidth), nil
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Luminance converts img to an 8-bit gray image using BT.601 weights.
func Luminance(img image.Image) *image.Gray {
	src := imaging.Grayscale(img)
	gray := image.NewGray(src.Bounds())
	for i := 0; i < len(gray.Pix); i++ {
		gray.Pix[i] = src.Pix[i*4]
	}
	return gray
}

func sortTopToBottom(rects []Rectangle) {
	sort.SliceStable(rects, func(i, j int) bool {
		if rects[i].Y != rects[j].Y {
			return rects[i].Y < rects[j].Y
		}
		return rects[i].X < rects[j].X
	})
}

func reverse(rects []Rectangle) {
	for i, j := 0, len(rects)-1; i < j; i, j = i+1, j-1 {
		rects[i], rects[j] = rects[j], rects[i]
	}
}
