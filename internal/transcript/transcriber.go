package transcript

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
)

// Recognizer reads the text inside one region of an image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, box detection.BoundingBox) (string, error)
}

// Message is the recognized text of one rectangle.
type Message struct {
	Text   string                `json:"message"`
	Side   detection.Group       `json:"side"`
	Bounds detection.BoundingBox `json:"bounds"`
}

// Result is the transcript of one screenshot.
type Result struct {
	Path     string    `json:"path"`
	Messages []Message `json:"messages"`
	Error    string    `json:"error,omitempty"`
}

// Transcriber runs detection and recognition over screenshots.
type Transcriber struct {
	Detector   *detection.Detector
	Edges      detection.EdgeOptions
	Recognizer Recognizer
	Cache      *imaging.ImageCache
	Logger     *slog.Logger
}

// Regions extracts contours from img and returns the detected rectangles.
func (t *Transcriber) Regions(ctx context.Context, img image.Image) ([]detection.Rectangle, error) {
	contours := detection.ExtractContours(img, t.Edges)
	t.logger().Debug("Extracted contours", "count", len(contours))
	return t.Detector.Detect(ctx, img, contours)
}

// RegionsFile loads path through the cache and returns its rectangles.
func (t *Transcriber) RegionsFile(ctx context.Context, path string) ([]detection.Rectangle, error) {
	img, err := t.Cache.Load(path)
	if err != nil {
		return nil, err
	}
	return t.Regions(ctx, img)
}

// TranscribeImage recognizes every detected rectangle of img, in detector
// order.
func (t *Transcriber) TranscribeImage(ctx context.Context, img image.Image) ([]Message, error) {
	if t.Recognizer == nil {
		return nil, errors.New("transcriber has no recognizer")
	}

	rects, err := t.Regions(ctx, img)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(rects))
	for _, r := range rects {
		text, err := t.Recognizer.Recognize(ctx, img, r.BoundingBox)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize region %v: %w", r.BoundingBox, err)
		}
		messages = append(messages, Message{Text: text, Side: r.Group, Bounds: r.BoundingBox})
	}
	return messages, nil
}

// TranscribeFile loads path through the cache and transcribes it.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string) ([]Message, error) {
	img, err := t.Cache.Load(path)
	if err != nil {
		return nil, err
	}
	return t.TranscribeImage(ctx, img)
}

// TranscribeBatch transcribes the image files among paths in natural order,
// one at a time. A file that fails is reported in its Result and the batch
// moves on; only a done ctx stops the batch early. Each image is evicted from
// the cache once it has been transcribed.
func (t *Transcriber) TranscribeBatch(ctx context.Context, paths []string) ([]Result, error) {
	files := SelectImages(paths)
	logger := t.logger()

	results := make([]Result, 0, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info(fmt.Sprintf("Processing %d/%d files", i+1, len(files)), "file", path)

		res := Result{Path: path, Messages: []Message{}}
		messages, err := t.TranscribeFile(ctx, path)
		t.Cache.Evict(path)
		switch {
		case err == nil:
			res.Messages = messages
		case ctx.Err() != nil:
			return results, ctx.Err()
		default:
			logger.Error("Failed to transcribe file", "file", path, "err", err)
			res.Error = err.Error()
		}
		results = append(results, res)
	}

	logger.Info("Files processed", "count", len(results))
	return results, nil
}

func (t *Transcriber) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}
