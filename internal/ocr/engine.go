package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("tesseract is not available in this build")

// Options configures the recognition engine.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "eng+deu".
	Language string `yaml:"language"`

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string `yaml:"tessdata_prefix"`
}

// DefaultOptions recognizes English with the system language data.
func DefaultOptions() Options {
	return Options{Language: "eng"}
}

// backend is the native recognizer behind an Engine.
type backend interface {
	recognize(png []byte) (string, error)
	version() string
	close() error
}

// Engine recognizes text in regions of a screenshot.
type Engine struct {
	token   chan struct{}
	backend backend
}

// New creates an Engine. The caller must Close it.
func New(opts Options) (*Engine, error) {
	if opts.Language == "" {
		opts.Language = DefaultOptions().Language
	}
	b, err := newBackend(opts)
	if err != nil {
		return nil, err
	}
	return newEngine(b), nil
}

func newEngine(b backend) *Engine {
	e := &Engine{
		token:   make(chan struct{}, 1),
		backend: b,
	}
	e.token <- struct{}{}
	return e
}

// Recognize returns the text inside box. The box is clipped to the image;
// a box with no visible area is an error. Leading and trailing whitespace is
// trimmed from the result.
func (e *Engine) Recognize(ctx context.Context, img image.Image, box detection.BoundingBox) (string, error) {
	if err := box.Validate(); err != nil {
		return "", err
	}
	bounds := img.Bounds()
	area := box.Rect().Add(bounds.Min).Intersect(bounds)

	cropped, err := imaging.CropRegion(img, area, 1.0)
	if err != nil {
		return "", fmt.Errorf("failed to crop region: %w", err)
	}
	data, err := imaging.EncodePNG(cropped)
	if err != nil {
		return "", err
	}

	select {
	case <-e.token:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { e.token <- struct{}{} }()

	text, err := e.backend.recognize(data)
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Version returns the Tesseract version string.
func (e *Engine) Version() string {
	return e.backend.version()
}

// Close releases the native handle. It waits for an in-flight Recognize and
// must be called once.
func (e *Engine) Close() error {
	<-e.token
	return e.backend.close()
}

// Info describes the OCR subsystem for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}

// Probe reports whether an Engine can be created with opts. Language data is
// loaded lazily, so a missing language only surfaces on the first Recognize.
func Probe(opts Options) Info {
	info := Info{Language: opts.Language, Backend: "gosseract"}
	e, err := New(opts)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer e.Close()

	info.Available = true
	info.Version = e.Version()
	return info
}
