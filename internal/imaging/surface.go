package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/chat-ocr/internal/detection"
)

// Surface is a scratch rendering surface used to sample dominant colors.
//
// The surface is a single-owner resource: Sample acquires it, renders the
// region, reads the color back and resets it before the next caller may
// acquire it. Concurrent callers wait in turn.
type Surface struct {
	token  chan struct{}
	canvas *image.NRGBA
	buf    bytes.Buffer

	// decode reads the encoded canvas back; replaced in tests.
	decode func(io.Reader) (image.Image, error)
}

var _ detection.ColorSampler = (*Surface)(nil)

// NewSurface creates a released Surface.
func NewSurface() *Surface {
	s := &Surface{
		token: make(chan struct{}, 1),
		decode: func(r io.Reader) (image.Image, error) {
			return imaging.Decode(r)
		},
	}
	s.token <- struct{}{}
	return s
}

// Sample returns the approximate dominant color of region.
//
// The region is rendered onto the surface, encoded to PNG, decoded and
// downsampled to one pixel with a box filter. Every failure, including a
// done ctx while waiting for the surface, wraps detection.ErrSampling.
func (s *Surface) Sample(ctx context.Context, region image.Image) (detection.DominantColor, error) {
	if err := s.acquire(ctx); err != nil {
		return detection.DominantColor{}, fmt.Errorf("%w: %w", detection.ErrSampling, err)
	}
	defer s.release()

	bounds := region.Bounds()
	if bounds.Empty() {
		return detection.DominantColor{}, fmt.Errorf("%w: empty region", detection.ErrSampling)
	}

	canvas := s.render(region)

	s.buf.Reset()
	if err := imaging.Encode(&s.buf, canvas, imaging.PNG); err != nil {
		return detection.DominantColor{}, fmt.Errorf("%w: failed to encode surface: %w", detection.ErrSampling, err)
	}
	decoded, err := s.decode(bytes.NewReader(s.buf.Bytes()))
	if err != nil {
		return detection.DominantColor{}, fmt.Errorf("%w: failed to decode surface: %w", detection.ErrSampling, err)
	}

	px := imaging.Resize(decoded, 1, 1, imaging.Box).NRGBAAt(0, 0)
	return detection.DominantColor{Red: px.R, Green: px.G, Blue: px.B}, nil
}

func (s *Surface) acquire(ctx context.Context) error {
	select {
	case <-s.token:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release clears the surface and hands it to the next caller.
func (s *Surface) release() {
	if s.canvas != nil {
		clear(s.canvas.Pix)
	}
	s.buf.Reset()
	s.token <- struct{}{}
}

// render copies region onto the canvas, growing or shrinking the canvas to
// the region's size. A canvas of the right size is reused.
func (s *Surface) render(region image.Image) *image.NRGBA {
	bounds := region.Bounds()
	size := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if s.canvas == nil || s.canvas.Rect != size {
		s.canvas = image.NewNRGBA(size)
	}
	draw.Draw(s.canvas, size, region, bounds.Min, draw.Src)
	return s.canvas
}
