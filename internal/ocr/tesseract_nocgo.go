//go:build !cgo

package ocr

func newBackend(Options) (backend, error) {
	return nil, ErrUnavailable
}
