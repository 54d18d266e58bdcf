package detection

// Verdict is the outcome of the region filter for one contour.
type Verdict int

const (
	Accept Verdict = iota
	RejectDegenerate
	RejectThin
	RejectNeutralSquare
	RejectFullWidth
	RejectTooSmall
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case RejectDegenerate:
		return "degenerate"
	case RejectThin:
		return "thin"
	case RejectNeutralSquare:
		return "neutral-square"
	case RejectFullWidth:
		return "full-width"
	case RejectTooSmall:
		return "too-small"
	default:
		return "unknown"
	}
}

// Filter decides whether a contour's bounding box is a text-region candidate.
//
// c is the dominant color of the pixels under box. Rules are evaluated in
// order and the first match rejects:
//
//  1. Height below imageWidth/HeightDivisor, or width/height below MinAspect.
//  2. Width/height below SquareAspect and a dominant color that is either
//     near-white (every channel above WhiteChannel) or near-gray (every
//     pairwise channel difference below GraySpread).
//  3. Width within FullWidthSlack of the image width.
//  4. Width below MinWidth or height below MinHeight.
func (p Params) Filter(box BoundingBox, imageWidth int, c DominantColor) Verdict {
	if box.Validate() != nil {
		return RejectDegenerate
	}

	ratio := float64(box.Width) / float64(box.Height)
	if float64(box.Height) < p.sliverThreshold(imageWidth) || ratio < p.MinAspect {
		return RejectThin
	}

	if ratio < p.SquareAspect && (p.isNearWhite(c) || p.isNearGray(c)) {
		return RejectNeutralSquare
	}

	if box.Width >= imageWidth-p.FullWidthSlack {
		return RejectFullWidth
	}

	if box.Width < p.MinWidth || box.Height < p.MinHeight {
		return RejectTooSmall
	}
	return Accept
}

func (p Params) isNearWhite(c DominantColor) bool {
	return c.Red > p.WhiteChannel && c.Green > p.WhiteChannel && c.Blue > p.WhiteChannel
}

// isNearGray reports a low-saturation color such as an avatar or icon.
func (p Params) isNearGray(c DominantColor) bool {
	r, g, b := int(c.Red), int(c.Green), int(c.Blue)
	return absInt(r-g) < p.GraySpread && absInt(g-b) < p.GraySpread && absInt(r-b) < p.GraySpread
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
