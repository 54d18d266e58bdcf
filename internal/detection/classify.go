package detection

// SideMargin returns the distance from either image edge inside which a
// rectangle is attributed to a side.
//
// The margin is MarginBase scaled by imageWidth/ReferenceWidth, so a 600px
// wide screenshot gets a 100px margin with the default parameters.
func (p Params) SideMargin(imageWidth int) float64 {
	return p.MarginBase * (float64(imageWidth) / p.ReferenceWidth)
}

// Classify labels a rectangle from its horizontal position.
//
// A rectangle that keeps clear of both side margins is centered (NONE), as
// system messages and timestamps are. Otherwise it belongs to the side it
// leans towards: LEFT when there is more free space to its right than to its
// left, RIGHT otherwise.
func (p Params) Classify(box BoundingBox, imageWidth int) Group {
	margin := p.SideMargin(imageWidth)
	if float64(box.X) > margin && float64(box.EndX()) < float64(imageWidth)-margin {
		return GroupNone
	}
	if imageWidth-box.EndX() > box.X {
		return GroupLeft
	}
	return GroupRight
}
