package detection

import (
	"image"
	"math"
)

// FindDividers returns the row offsets of horizontal whitespace gaps inside a
// candidate region.
//
// gray holds the candidate's pixels; rows and columns are taken relative to
// gray.Bounds().Min, so a sub-image of the full frame works as is. Scanning
// starts DividerTopMargin rows down to skip bubble borders. A row is a
// divider when, starting at one third of the width, DividerRun consecutive
// pixels are at least DividerBrightness before any darker pixel appears.
// Rows within DividerSpacing of the previous divider are skipped, so a white
// band yields only its first row.
func (p Params) FindDividers(gray *image.Gray) []int {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	startX := int(math.Round(float64(width) / 3))

	var dividers []int
	for y := p.DividerTopMargin; y < height; y++ {
		if len(dividers) > 0 && dividers[len(dividers)-1] >= y-p.DividerSpacing {
			continue
		}
		if p.isDividerRow(gray, bounds.Min.X+startX, bounds.Max.X, bounds.Min.Y+y) {
			dividers = append(dividers, y)
		}
	}
	return dividers
}

func (p Params) isDividerRow(gray *image.Gray, fromX, toX, y int) bool {
	run := 0
	for x := fromX; x < toX; x++ {
		if gray.GrayAt(x, y).Y < p.DividerBrightness {
			return false
		}
		run++
		if run >= p.DividerRun {
			return true
		}
	}
	return false
}

// SplitLines cuts a candidate into line-level rectangles at the given
// divider offsets.
//
// Segments run [0, d1), [d1, d2), ..., [dk, height) relative to the
// candidate's top and keep the candidate's X and Width. A segment survives
// only when its height exceeds imageWidth/HeightDivisor. With no dividers the
// candidate is returned unchanged. With dividers, the surviving segments are
// returned bottom-to-top.
func (p Params) SplitLines(box BoundingBox, dividers []int, imageWidth int) []Rectangle {
	if len(dividers) == 0 {
		return []Rectangle{{BoundingBox: box}}
	}

	threshold := p.sliverThreshold(imageWidth)
	segments := make([]Rectangle, 0, len(dividers)+1)
	ends := make([]int, 0, len(dividers)+1)
	ends = append(ends, dividers...)
	ends = append(ends, box.Height)

	start := 0
	for _, end := range ends {
		if float64(end-start) > threshold {
			segments = append(segments, Rectangle{BoundingBox: BoundingBox{
				X:      box.X,
				Y:      box.Y + start,
				Width:  box.Width,
				Height: end - start,
			}})
		}
		start = end
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}
