// Package transcript turns chat screenshots into ordered messages.
//
// A Transcriber extracts contours from each screenshot, runs the detection
// pipeline and hands every emitted rectangle to a Recognizer, producing one
// Message per rectangle with the rectangle's side. Batches are ordered by
// natural filename comparison (so "shot2.png" sorts before "shot10.png")
// and processed strictly one image at a time.
package transcript
