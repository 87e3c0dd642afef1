package expcomp

import (
	"fmt"
	"image"
)

// NoOverlap is stored for camera pairs whose regions don't intersect.
var NoOverlap = image.Rectangle{}

// An OverlapMatrix holds, for every pair of cameras, the intersection of
// their regions. It is symmetric. The diagonal holds each camera's own
// region. All N*N entries live in one slice.
type OverlapMatrix struct {
	n     int
	rects []image.Rectangle
}

// Intersect computes the overlap of every camera pair. Rectangles that
// touch but share no pixels (x1 >= x2 or y1 >= y2) count as no overlap.
func Intersect(regions []image.Rectangle) OverlapMatrix {
	n := len(regions)
	om := OverlapMatrix{n: n, rects: make([]image.Rectangle, n*n)}

	for i := 0; i < n; i++ {
		om.rects[i*n+i] = regions[i]
		for j := i + 1; j < n; j++ {
			a, b := regions[i], regions[j]
			x1, y1 := max(a.Min.X, b.Min.X), max(a.Min.Y, b.Min.Y)
			x2, y2 := min(a.Max.X, b.Max.X), min(a.Max.Y, b.Max.Y)

			r := NoOverlap
			if x1 < x2 && y1 < y2 {
				r = image.Rectangle{Min: image.Point{x1, y1}, Max: image.Point{x2, y2}}
			}
			om.rects[i*n+j] = r
			om.rects[j*n+i] = r
		}
	}

	return om
}

func (om OverlapMatrix) N() int                      { return om.n }
func (om OverlapMatrix) At(i, j int) image.Rectangle { return om.rects[i*om.n+j] }

// Has is true if cameras i and j (i != j) share at least one pixel.
func (om OverlapMatrix) Has(i, j int) bool { return i != j && !om.At(i, j).Empty() }

func (om OverlapMatrix) String() string {
	str := fmt.Sprintf("OverlapMatrix[%d] [\n", om.n)
	for i := 0; i < om.n; i++ {
		for j := i + 1; j < om.n; j++ {
			if om.Has(i, j) {
				str += fmt.Sprintf("  %d-%d: %v (%d pix)\n", i, j, om.At(i, j), om.At(i, j).Dx()*om.At(i, j).Dy())
			}
		}
	}
	return str + "]\n"
}

// Tiles cuts r into w x h tiles, left to right then top to bottom. Tiles
// on the right and bottom edges are clipped to r.
func Tiles(r image.Rectangle, w, h int) []image.Rectangle {
	if r.Empty() || w <= 0 || h <= 0 {
		return nil
	}
	tiles := []image.Rectangle{}
	for y := r.Min.Y; y < r.Max.Y; y += h {
		for x := r.Min.X; x < r.Max.X; x += w {
			tiles = append(tiles, image.Rectangle{
				Min: image.Point{x, y},
				Max: image.Point{min(x+w, r.Max.X), min(y+h, r.Max.Y)},
			})
		}
	}
	return tiles
}

// bandOrigin is where camera i's band starts within the stacked frame.
func bandOrigin(frame image.Rectangle, bandHeight, i int) image.Point {
	return image.Point{frame.Min.X, frame.Min.Y + i*bandHeight}
}

// WriteRect is the part of the stacked frame that camera i's gain worker
// writes. Regions are validated to lie inside their band, so these never
// intersect for i != j.
func WriteRect(frame image.Rectangle, bandHeight int, region image.Rectangle, i int) image.Rectangle {
	return region.Add(bandOrigin(frame, bandHeight, i))
}

// checkBands makes sure every region fits inside its band of a frame of the
// given width, which is what keeps the per-camera writes disjoint.
func checkBands(regions []image.Rectangle, width, bandHeight int) error {
	band := image.Rect(0, 0, width, bandHeight)
	for i, r := range regions {
		if !r.In(band) {
			return fmt.Errorf("%w: camera %d region %v is outside its %dx%d band", ErrConfiguration, i, r, width, bandHeight)
		}
	}
	return nil
}
