package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/ironsheep/chat-ocr/internal/detection"
)

func TestSurface_SampleSolidColor(t *testing.T) {
	s := NewSurface()
	img := createInMemoryImage(60, 40, color.RGBA{12, 200, 99, 255})

	got, err := s.Sample(context.Background(), img)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	want := detection.DominantColor{Red: 12, Green: 200, Blue: 99}
	if got != want {
		t.Errorf("Sample = %+v, want %+v", got, want)
	}
}

func TestSurface_SampleAveragesRegion(t *testing.T) {
	s := NewSurface()
	img := createInMemoryImage(40, 40, color.White)
	// Left half black, right half white.
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.Black)
		}
	}

	got, err := s.Sample(context.Background(), img)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for _, ch := range []uint8{got.Red, got.Green, got.Blue} {
		if ch < 120 || ch > 135 {
			t.Errorf("Sample = %+v, want mid gray", got)
			break
		}
	}
}

func TestSurface_SampleSubImage(t *testing.T) {
	s := NewSurface()
	img := createQuadrantImage(100, 100)

	sub := img.SubImage(image.Rect(50, 50, 100, 100))
	got, err := s.Sample(context.Background(), sub)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got != (detection.DominantColor{Red: 255, Green: 255, Blue: 255}) {
		t.Errorf("Sample = %+v, want white quadrant", got)
	}
}

func TestSurface_ReusedBetweenSizes(t *testing.T) {
	s := NewSurface()
	ctx := context.Background()

	red := createInMemoryImage(30, 30, color.RGBA{255, 0, 0, 255})
	blue := createInMemoryImage(10, 50, color.RGBA{0, 0, 255, 255})

	for i, tc := range []struct {
		img  image.Image
		want detection.DominantColor
	}{
		{red, detection.DominantColor{Red: 255}},
		{blue, detection.DominantColor{Blue: 255}},
		{red, detection.DominantColor{Red: 255}},
	} {
		got, err := s.Sample(ctx, tc.img)
		if err != nil {
			t.Fatalf("sample %d failed: %v", i, err)
		}
		if got != tc.want {
			t.Errorf("sample %d = %+v, want %+v", i, got, tc.want)
		}
	}
}

func TestSurface_EmptyRegion(t *testing.T) {
	s := NewSurface()

	_, err := s.Sample(context.Background(), image.NewRGBA(image.Rectangle{}))
	if !errors.Is(err, detection.ErrSampling) {
		t.Errorf("err = %v, want ErrSampling", err)
	}

	// The surface must be released after the failure.
	if _, err := s.Sample(context.Background(), createInMemoryImage(4, 4, color.White)); err != nil {
		t.Errorf("Sample after failure: %v", err)
	}
}

func TestSurface_DecodeFailure(t *testing.T) {
	s := NewSurface()
	boom := errors.New("decoder exploded")
	s.decode = func(io.Reader) (image.Image, error) { return nil, boom }

	_, err := s.Sample(context.Background(), createInMemoryImage(8, 8, color.White))
	if !errors.Is(err, detection.ErrSampling) {
		t.Errorf("err = %v, want ErrSampling", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the decoder error wrapped", err)
	}
}

func TestSurface_WaitsForOwner(t *testing.T) {
	s := NewSurface()

	// Hold the surface as another caller would.
	<-s.token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Sample(ctx, createInMemoryImage(8, 8, color.White))
	if !errors.Is(err, detection.ErrSampling) {
		t.Errorf("err = %v, want ErrSampling", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}

	s.token <- struct{}{}
	if _, err := s.Sample(context.Background(), createInMemoryImage(8, 8, color.White)); err != nil {
		t.Errorf("Sample after release: %v", err)
	}
}

func TestSurface_UsableAsDetectorSampler(t *testing.T) {
	img := createInMemoryImage(600, 400, color.White)
	bubble := detection.BoundingBox{X: 20, Y: 100, Width: 300, Height: 80}
	for y := bubble.Y; y < bubble.EndY(); y++ {
		for x := bubble.X; x < bubble.EndX(); x++ {
			img.Set(x, y, color.RGBA{220, 220, 225, 255})
		}
	}
	avatar := detection.BoundingBox{X: 20, Y: 20, Width: 60, Height: 60}
	for y := avatar.Y; y < avatar.EndY(); y++ {
		for x := avatar.X; x < avatar.EndX(); x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}

	d := detection.NewDetector(detection.DefaultParams(), NewSurface())
	rects, err := d.Detect(context.Background(), img, []detection.Contour{avatar, bubble})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) != 1 || rects[0].Group != detection.GroupLeft {
		t.Errorf("Detect = %+v, want only the LEFT bubble", rects)
	}
}
