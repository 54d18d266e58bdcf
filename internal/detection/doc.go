// Package detection locates chat-bubble text regions in a screenshot and labels
// each one with the conversational side it belongs to.
//
// The package turns raw contour outlines plus pixel data into an ordered list
// of labeled rectangles that can be handed, one by one, to a text-recognition
// engine. It does not read text itself.
//
// # Pipeline
//
// A Detector runs the following stages for every image:
//
//  1. Region filter: each contour's bounding box is checked against aspect
//     ratio, size and dominant-color heuristics (see Filter).
//  2. Line splitting: accepted candidates are split on horizontal bands of
//     near-white pixels into line-level rectangles (see SplitLines).
//  3. Overlap resolution: vertically colliding neighbours are removed, keeping
//     the wider rectangle (see ResolveOverlaps).
//  4. Side classification: every surviving rectangle is labeled LEFT, RIGHT or
//     NONE from its horizontal position (see Classify).
//
// Contours are usually produced by ExtractContours, which runs a Canny edge
// detector and keeps only the outermost connected components.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - A BoundingBox spans [X, X+Width) horizontally and [Y, Y+Height) vertically
//
// # Tuning
//
// Every threshold lives in Params. DefaultParams returns values tuned for a
// typical two-column messaging layout; other layouts may need different
// values, and the side labels carry no semantic guarantee outside that layout.
//
// # Concurrency
//
// A Detector processes contours strictly one after another because its
// ColorSampler may own a single scratch surface. Do not share one Detector
// between goroutines unless its sampler is safe for concurrent use.
package detection
