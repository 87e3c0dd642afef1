package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"gonum.org/v1/gonum/mat"
)

// A FloatGrid is a grid of floats, mostly used to eyeball the per-pair
// matrices (counts, intensities) as images.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

// NewFloatGridFromMatrix copies m; rows of m become rows (y) of the grid.
func NewFloatGridFromMatrix(m mat.Matrix) FloatGrid {
	r, c := m.Dims()
	fg := NewFloatGrid(c, r)
	for y:=0; y<r; y++ {
		for x:=0; x<c; x++ {
			fg.Set(x, y, m.At(y, x))
		}
	}
	return fg
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 { return 0 }
	return len(fg.values) / fg.stride
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min
	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImage renders the grid as grayscale, each cell a cellSize square,
// based on the range of values in the grid, and gamma scaling the gray to
// look normal for human vision. A flat grid renders as mid gray.
func (fg *FloatGrid)ToImage(cellSize int) *image.RGBA64 {
	min, max := fg.MinMax()

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx()*cellSize, fg.Dy()*cellSize}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			v := 0.5
			if max > min {
				v = (fg.Get(x,y) - min) / (max - min)
			}
			gray := uint16(GammaExpand_F64(v) * 65535.0)
			col := color.RGBA64{gray, gray, gray, 0xFFFF}
			for dx:=0; dx<cellSize; dx++ {
				for dy:=0; dy<cellSize; dy++ {
					img.SetRGBA64(x*cellSize+dx, y*cellSize+dy, col)
				}
			}
		}
	}
	return img
}

// ToImg saves the grid image with a title drawn over it
func (fg *FloatGrid)ToImg(title, filename string) error {
	cellSize := 32
	dc := gg.NewContextForImage(fg.ToImage(cellSize))
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 4, 14)
	return dc.SavePNG(filename)
}
