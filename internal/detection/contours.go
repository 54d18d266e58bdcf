package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// EdgeOptions tunes contour extraction.
type EdgeOptions struct {
	// BlurRadius is the Gaussian blur radius applied before gradients.
	// A radius of 2 gives a 5x5 kernel.
	BlurRadius float64 `yaml:"blur_radius"`

	// MinContourPixels drops connected edge components smaller than this.
	MinContourPixels int `yaml:"min_contour_pixels"`
}

// DefaultEdgeOptions returns the options used for chat screenshots.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		BlurRadius:       2,
		MinContourPixels: 10,
	}
}

// Outline is a connected set of edge pixels in image-relative coordinates.
type Outline []image.Point

// Box returns the smallest box containing every pixel of the outline.
func (o Outline) Box() BoundingBox {
	if len(o) == 0 {
		return BoundingBox{}
	}
	r := image.Rectangle{Min: o[0], Max: o[0].Add(image.Pt(1, 1))}
	for _, p := range o[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return BoxFromRect(r)
}

// ExtractContours finds the outermost outlines of img.
//
// # Algorithm
//
//  1. Grayscale conversion and median brightness
//  2. Canny thresholds derived from the median (see CannyThresholds)
//  3. Gaussian blur, Sobel gradients, non-maximum suppression and
//     hysteresis thresholding
//  4. 8-connected components of edge pixels
//  5. Components whose bounding box lies inside another component's box are
//     dropped, so a chat bubble hides the glyphs it contains
//
// Outlines are returned in discovery order: by their first pixel in
// row-major order.
func ExtractContours(img image.Image, opts EdgeOptions) []Contour {
	gray := grayscale(img)
	low, high := CannyThresholds(medianGray(gray))
	edges := EdgeMap(gray, opts.BlurRadius, low, high)

	bounds := gray.Bounds()
	outlines := findContours(edges, bounds.Dx(), bounds.Dy(), opts.MinContourPixels)
	outlines = outermost(outlines)

	contours := make([]Contour, len(outlines))
	for i, o := range outlines {
		contours[i] = o
	}
	return contours
}

// CannyThresholds picks hysteresis thresholds from the median brightness.
//
// Light and dark images get a wider band (2*sigma) with a floor of 85 on the
// high threshold; mid-tone images use sigma = 0.33 around the median or its
// complement.
func CannyThresholds(median float64) (low, high float64) {
	const s = 0.33
	switch {
	case median > 191:
		low = math.Max(0, (1-2*s)*(255-median))
		high = math.Max(85, (1+2*s)*(255-median))
	case median > 127:
		low = math.Max(0, (1-s)*(255-median))
		high = math.Min(255, (1+s)*(255-median))
	case median < 63:
		low = math.Max(0, (1-2*s)*median)
		high = math.Max(85, (1+2*s)*median)
	default:
		low = math.Max(0, (1-s)*median)
		high = math.Min(255, (1+s)*median)
	}
	return low, high
}

// grayscale converts img with bild and keeps one channel, since bild's
// grayscale output has equal red, green and blue values.
func grayscale(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	bounds := rgba.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := rgba.PixOffset(bounds.Min.X, y)
		dst := gray.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			gray.Pix[dst+x] = rgba.Pix[src+x*4]
		}
	}
	return gray
}

// medianGray returns the median pixel value, averaging the two middle values
// for an even pixel count.
func medianGray(gray *image.Gray) float64 {
	var hist [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	nth := func(k int) int {
		seen := 0
		for v, n := range hist {
			seen += n
			if seen > k {
				return v
			}
		}
		return 255
	}

	half := total / 2
	if total%2 == 0 {
		return float64(nth(half-1)+nth(half)) / 2
	}
	return float64(nth(half))
}

// EdgeMap runs Canny edge detection on a grayscale image.
//
// Gradients use 3x3 Sobel kernels with an L1 magnitude (|Gx| + |Gy|) on the
// 0-255 scale. Pixels at or above high are strong edges; pixels at or above
// low are kept only when connected to a strong edge. The result is indexed
// [y][x] relative to gray.Bounds().Min.
func EdgeMap(gray *image.Gray, blurRadius, low, high float64) [][]bool {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var src image.Image = gray
	if blurRadius > 0 {
		src = blur.Gaussian(gray, blurRadius)
	}
	values := make([][]float64, height)
	for y := 0; y < height; y++ {
		values[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := src.At(x+src.Bounds().Min.X, y+src.Bounds().Min.Y).RGBA()
			values[y][x] = float64(r >> 8)
		}
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := values[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Abs(gx) + math.Abs(gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := suppressNonMaxima(magnitude, direction, width, height)
	return hysteresis(suppressed, width, height, low, high)
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// suppressNonMaxima thins edges to one pixel by keeping only local maxima
// along the gradient direction. Border pixels are never kept.
func suppressNonMaxima(magnitude, direction [][]float64, width, height int) [][]float64 {
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}
	return suppressed
}

// hysteresis keeps strong edges and every weak edge 8-connected to one.
func hysteresis(suppressed [][]float64, width, height int, low, high float64) [][]bool {
	edges := make([][]bool, height)
	for y := range edges {
		edges[y] = make([]bool, width)
	}

	var stack []image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if suppressed[y][x] >= high && suppressed[y][x] > 0 {
				edges[y][x] = true
				stack = append(stack, image.Pt(x, y))
			}
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height || edges[ny][nx] {
					continue
				}
				if v := suppressed[ny][nx]; v >= low && v > 0 {
					edges[ny][nx] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}
		}
	}
	return edges
}

// findContours groups edge pixels into 8-connected outlines with an
// iterative flood fill. Outlines smaller than minPixels are discarded.
func findContours(edges [][]bool, width, height, minPixels int) []Outline {
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var outlines []Outline
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] || visited[y][x] {
				continue
			}
			outline := floodFill(edges, visited, x, y, width, height)
			if len(outline) >= minPixels {
				outlines = append(outlines, outline)
			}
		}
	}
	return outlines
}

func floodFill(edges, visited [][]bool, startX, startY, width, height int) Outline {
	var outline Outline
	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY][startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		outline = append(outline, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				if edges[ny][nx] && !visited[ny][nx] {
					visited[ny][nx] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}
		}
	}
	return outline
}

// outermost drops outlines whose bounding box lies inside the box of a
// different, larger outline. Order is preserved.
func outermost(outlines []Outline) []Outline {
	boxes := make([]image.Rectangle, len(outlines))
	for i, o := range outlines {
		boxes[i] = o.Box().Rect()
	}

	kept := make([]Outline, 0, len(outlines))
	for i, o := range outlines {
		inner := false
		for j := range outlines {
			if i == j || !boxes[i].In(boxes[j]) {
				continue
			}
			// identical boxes: keep the first one discovered
			if boxes[i] == boxes[j] && i < j {
				continue
			}
			inner = true
			break
		}
		if !inner {
			kept = append(kept, o)
		}
	}
	return kept
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
