package transcript

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ironsheep/chat-ocr/internal/imaging"
)

// SortNatural orders paths by base name with numeric runs compared by value,
// ignoring case and diacritics. Names that compare equal keep their input
// order.
func SortNatural(paths []string) {
	c := collate.New(language.Und, collate.Numeric, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(paths, func(a, b string) int {
		return c.CompareString(filepath.Base(a), filepath.Base(b))
	})
}

// SelectImages returns the image files of paths in natural order. The input
// slice is not modified.
func SelectImages(paths []string) []string {
	images := make([]string, 0, len(paths))
	for _, p := range paths {
		if imaging.IsImagePath(p) {
			images = append(images, p)
		}
	}
	SortNatural(images)
	return images
}
