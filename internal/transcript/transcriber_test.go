package transcript

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
)

var (
	leftBubble  = detection.BoundingBox{X: 20, Y: 60, Width: 300, Height: 80}
	rightBubble = detection.BoundingBox{X: 280, Y: 220, Width: 300, Height: 70}
)

// fakeRecognizer names each region after its top edge
type fakeRecognizer struct {
	calls []detection.BoundingBox
	err   error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ image.Image, box detection.BoundingBox) (string, error) {
	f.calls = append(f.calls, box)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("line@%d", box.Y), nil
}

func fillBox(img *image.RGBA, b detection.BoundingBox, c color.Color) {
	for y := b.Y; y < b.EndY(); y++ {
		for x := b.X; x < b.EndX(); x++ {
			img.Set(x, y, c)
		}
	}
}

// createChatScreenshot draws one incoming and one outgoing bubble
func createChatScreenshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	fillBox(img, detection.BoundingBox{Width: 600, Height: 400}, color.White)
	fillBox(img, leftBubble, color.RGBA{30, 60, 200, 255})
	fillBox(img, rightBubble, color.RGBA{20, 140, 60, 255})
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func newTestTranscriber(rec Recognizer) *Transcriber {
	return &Transcriber{
		Detector:   detection.NewDetector(detection.DefaultParams(), imaging.NewSurface()),
		Edges:      detection.DefaultEdgeOptions(),
		Recognizer: rec,
		Cache:      imaging.NewImageCache(),
	}
}

func near(a, b detection.BoundingBox) bool {
	const slack = 4
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	return abs(a.X-b.X) <= slack && abs(a.Y-b.Y) <= slack &&
		abs(a.EndX()-b.EndX()) <= slack && abs(a.EndY()-b.EndY()) <= slack
}

func TestTranscriber_Regions(t *testing.T) {
	tr := newTestTranscriber(nil)

	rects, err := tr.Regions(context.Background(), createChatScreenshot())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(rects) != 2 {
		t.Fatalf("Regions returned %d rectangles, want 2: %+v", len(rects), rects)
	}
	if !near(rects[0].BoundingBox, leftBubble) || rects[0].Group != detection.GroupLeft {
		t.Errorf("first = %+v, want LEFT near %+v", rects[0], leftBubble)
	}
	if !near(rects[1].BoundingBox, rightBubble) || rects[1].Group != detection.GroupRight {
		t.Errorf("second = %+v, want RIGHT near %+v", rects[1], rightBubble)
	}
}

func TestTranscriber_TranscribeImage(t *testing.T) {
	rec := &fakeRecognizer{}
	tr := newTestTranscriber(rec)

	messages, err := tr.TranscribeImage(context.Background(), createChatScreenshot())
	if err != nil {
		t.Fatalf("TranscribeImage failed: %v", err)
	}
	if len(messages) != 2 || len(rec.calls) != 2 {
		t.Fatalf("got %d messages from %d calls, want 2", len(messages), len(rec.calls))
	}
	for i, m := range messages {
		if m.Bounds != rec.calls[i] {
			t.Errorf("message %d bounds %+v, recognized %+v", i, m.Bounds, rec.calls[i])
		}
		if m.Text != fmt.Sprintf("line@%d", m.Bounds.Y) {
			t.Errorf("message %d text = %q", i, m.Text)
		}
	}
	if messages[0].Side != detection.GroupLeft || messages[1].Side != detection.GroupRight {
		t.Errorf("sides = %s, %s; want LEFT, RIGHT", messages[0].Side, messages[1].Side)
	}
}

func TestTranscriber_TranscribeImage_Errors(t *testing.T) {
	if _, err := newTestTranscriber(nil).TranscribeImage(context.Background(), createChatScreenshot()); err == nil {
		t.Error("TranscribeImage should fail without a recognizer")
	}

	boom := errors.New("engine gone")
	_, err := newTestTranscriber(&fakeRecognizer{err: boom}).TranscribeImage(context.Background(), createChatScreenshot())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want recognizer error", err)
	}
}

func TestTranscriber_TranscribeImage_Blank(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	fillBox(img, detection.BoundingBox{Width: 300, Height: 300}, color.White)

	messages, err := newTestTranscriber(&fakeRecognizer{}).TranscribeImage(context.Background(), img)
	if err != nil {
		t.Fatalf("TranscribeImage failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("blank screenshot produced %d messages", len(messages))
	}
}

func TestTranscriber_TranscribeBatch(t *testing.T) {
	dir := t.TempDir()
	shot := createChatScreenshot()
	paths := []string{
		writePNG(t, dir, "chat-10.png", shot),
		writePNG(t, dir, "chat-2.png", shot),
		filepath.Join(dir, "notes.txt"),
	}
	broken := filepath.Join(dir, "chat-3.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	paths = append(paths, broken)

	tr := newTestTranscriber(&fakeRecognizer{})
	results, err := tr.TranscribeBatch(context.Background(), paths)
	if err != nil {
		t.Fatalf("TranscribeBatch failed: %v", err)
	}

	var names []string
	for _, r := range results {
		names = append(names, filepath.Base(r.Path))
	}
	if strings.Join(names, ",") != "chat-2.png,chat-3.png,chat-10.png" {
		t.Fatalf("processing order = %v", names)
	}

	if len(results[0].Messages) != 2 || results[0].Error != "" {
		t.Errorf("chat-2: %+v", results[0])
	}
	if results[1].Error == "" || len(results[1].Messages) != 0 {
		t.Errorf("chat-3 should carry its decode error: %+v", results[1])
	}
	if len(results[2].Messages) != 2 {
		t.Errorf("chat-10: %+v", results[2])
	}
	if n := tr.Cache.Len(); n != 0 {
		t.Errorf("cache holds %d images after the batch, want 0", n)
	}
}

func TestTranscriber_TranscribeBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "chat-1.png", createChatScreenshot())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newTestTranscriber(&fakeRecognizer{}).TranscribeBatch(ctx, []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("cancelled batch returned %d results", len(results))
	}
}
