package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/chat-ocr/internal/detection"
)

// fakeBackend records the images it receives and returns canned text
type fakeBackend struct {
	text   string
	err    error
	images []image.Image
	closed bool
}

func (f *fakeBackend) recognize(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	f.images = append(f.images, img)
	return f.text, f.err
}

func (f *fakeBackend) version() string { return "fake-1.0" }

func (f *fakeBackend) close() error {
	f.closed = true
	return nil
}

func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestEngine_RecognizeCropsRegion(t *testing.T) {
	fake := &fakeBackend{text: "  hello there \n"}
	e := newEngine(fake)

	img := createTestImage(200, 100)
	draw.Draw(img, image.Rect(40, 20, 120, 50), image.NewUniform(color.Black), image.Point{}, draw.Src)

	text, err := e.Recognize(context.Background(), img, detection.BoundingBox{X: 40, Y: 20, Width: 80, Height: 30})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q, want trimmed %q", text, "hello there")
	}

	if len(fake.images) != 1 {
		t.Fatalf("backend called %d times, want 1", len(fake.images))
	}
	got := fake.images[0]
	if got.Bounds().Dx() != 80 || got.Bounds().Dy() != 30 {
		t.Errorf("cropped size = %dx%d, want 80x30", got.Bounds().Dx(), got.Bounds().Dy())
	}
	if r, _, _, _ := got.At(5, 5).RGBA(); r != 0 {
		t.Errorf("cropped image should be the black region")
	}
}

func TestEngine_RecognizeClipsToImage(t *testing.T) {
	fake := &fakeBackend{}
	e := newEngine(fake)

	_, err := e.Recognize(context.Background(), createTestImage(100, 100), detection.BoundingBox{X: 60, Y: 80, Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if b := fake.images[0].Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("clipped size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestEngine_RecognizeInvalidBox(t *testing.T) {
	fake := &fakeBackend{}
	e := newEngine(fake)
	img := createTestImage(100, 100)

	if _, err := e.Recognize(context.Background(), img, detection.BoundingBox{X: 0, Y: 0, Width: 0, Height: 10}); !errors.Is(err, detection.ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
	if _, err := e.Recognize(context.Background(), img, detection.BoundingBox{X: 200, Y: 0, Width: 10, Height: 10}); err == nil {
		t.Error("Recognize should fail for a box outside the image")
	}
	if len(fake.images) != 0 {
		t.Errorf("backend should not be called, got %d calls", len(fake.images))
	}
}

func TestEngine_RecognizeBackendError(t *testing.T) {
	boom := errors.New("tesseract crashed")
	e := newEngine(&fakeBackend{err: boom})

	_, err := e.Recognize(context.Background(), createTestImage(50, 50), detection.BoundingBox{Width: 50, Height: 50})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped backend error", err)
	}

	// The handle is released after a failure.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := e.Recognize(ctx, createTestImage(50, 50), detection.BoundingBox{Width: 50, Height: 50}); errors.Is(err, context.DeadlineExceeded) {
		t.Error("handle was not released after an error")
	}
}

func TestEngine_RecognizeWaitsForHandle(t *testing.T) {
	e := newEngine(&fakeBackend{})
	<-e.token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Recognize(ctx, createTestImage(50, 50), detection.BoundingBox{Width: 50, Height: 50})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
	e.token <- struct{}{}
}

func TestEngine_VersionAndClose(t *testing.T) {
	fake := &fakeBackend{}
	e := newEngine(fake)

	if v := e.Version(); v != "fake-1.0" {
		t.Errorf("Version = %q", v)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !fake.closed {
		t.Error("Close should close the backend")
	}
}

func TestDefaultOptions(t *testing.T) {
	if got := DefaultOptions().Language; got != "eng" {
		t.Errorf("default language = %q, want eng", got)
	}
}
