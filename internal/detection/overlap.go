package detection

// collides reports whether the vertical midpoint of current falls inside the
// vertical span of next, bounds included.
func collides(current, next Rectangle) bool {
	mid := float64(current.Y) + float64(current.Height)/2
	return mid >= float64(next.Y) && mid <= float64(next.EndY())
}

// ResolveOverlaps removes vertically colliding neighbours from a rectangle
// sequence, keeping the wider rectangle of each colliding pair.
//
// Only entries adjacent in the given order are compared, so the order of the
// input matters. A pair (current, next) collides when current's vertical
// midpoint lies within next's vertical span. The narrower rectangle is
// dropped; on equal widths next is kept.
//
// The scan keeps survivors on a stack. When the top of the stack is dropped,
// the incoming rectangle is compared again with the new top, and when the
// incoming rectangle is dropped, the top stays in place for the following
// one. Every adjacent pair of the result has therefore been checked, and
// running ResolveOverlaps on its own output removes nothing.
//
// The input slice is not modified.
func ResolveOverlaps(rects []Rectangle) []Rectangle {
	kept := make([]Rectangle, 0, len(rects))
	for _, next := range rects {
		for {
			if len(kept) == 0 {
				kept = append(kept, next)
				break
			}
			current := kept[len(kept)-1]
			if !collides(current, next) {
				kept = append(kept, next)
				break
			}
			if current.Width > next.Width {
				// next dropped
				break
			}
			kept = kept[:len(kept)-1]
		}
	}
	return kept
}
