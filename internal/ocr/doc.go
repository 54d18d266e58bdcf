// Package ocr recognizes the text inside detected chat regions using
// Tesseract (via gosseract/v2).
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A custom language data directory can be set with Options.TessdataPrefix.
// Builds without cgo compile, but New returns ErrUnavailable.
//
// # Engine Ownership
//
// An Engine wraps a single Tesseract handle. Recognize calls are serialized:
// a caller waits for the handle, or gives up when its context is done.
// Create one Engine per worker if recognition must run in parallel.
package ocr
