//go:build cgo

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

type tesseract struct {
	client *gosseract.Client
}

func newBackend(opts Options) (backend, error) {
	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(opts.Language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	// Regions are single bubbles or lines, never full pages.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &tesseract{client: client}, nil
}

func (t *tesseract) recognize(png []byte) (string, error) {
	if err := t.client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	return t.client.Text()
}

func (t *tesseract) version() string {
	return t.client.Version()
}

func (t *tesseract) close() error {
	return t.client.Close()
}
