// Package imaging provides the image plumbing around region detection.
//
// It loads and caches screenshots, crops regions, samples dominant colors
// through a single-owner scratch Surface, and renders a debug overlay of
// labeled rectangles. All operations work with standard Go image.Image
// types and use a coordinate system where (0,0) is at the top-left corner,
// X increases rightward, and Y increases downward.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. A Surface serializes its callers:
// only one sample runs at a time and the others wait for the surface to be
// released. Crop and overlay functions are stateless.
//
// # Dominant Colors
//
// Surface.Sample approximates the dominant color of a region the way a
// browser canvas would: the region is rendered onto the scratch surface,
// encoded to PNG, decoded again and downsampled to a single pixel. The
// result is an average, not a histogram mode. Any encode or decode failure
// is reported as detection.ErrSampling.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or without area
//   - File I/O errors during image loading
//   - Encoding errors during image output
//   - Malformed overlay colors
package imaging
