package erig

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"

	"github.com/abworrall/expcomp/pkg/ecolor"
	"github.com/abworrall/expcomp/pkg/expcomp"
)

// A Rig is a set of camera images plus the config that says where each
// camera's valid region is.
type Rig struct {
	Cameras      []Camera  // Ordered by filename
	expcomp.Config
	HaveConfig   bool      // Whether a config file was loaded
}

func NewRig() Rig {
	return Rig{
		Cameras: []Camera{},
		Config:  expcomp.NewConfig(),
	}
}

func (r Rig)String() string {
	str := "Rig [\n"
	for i, c := range r.Cameras {
		str += fmt.Sprintf("  cam%d %s\n", i, c)
	}
	return str + "]\n"
}

func (r *Rig)AddCamera(c Camera) {
	r.Cameras = append(r.Cameras, c)
	sort.Slice(r.Cameras, func(i, j int) bool { return r.Cameras[i].LoadFilename < r.Cameras[j].LoadFilename })
}

// BandSize is the size of each camera's band in the stacked frame: wide
// enough for the widest camera, tall enough for the tallest.
func (r Rig)BandSize() image.Point {
	sz := image.Point{}
	for _, c := range r.Cameras {
		sz.X = max(sz.X, c.Bounds().Dx())
		sz.Y = max(sz.Y, c.Bounds().Dy())
	}
	return sz
}

// FinalizeConfig fills in the camera regions if no config supplied them
// (each camera's region is then its whole image), and checks there is
// one region per camera.
func (r *Rig)FinalizeConfig() error {
	if len(r.Cameras) == 0 {
		return fmt.Errorf("%w: no camera images loaded", expcomp.ErrConfiguration)
	}

	if len(r.Config.Cameras) == 0 {
		for _, c := range r.Cameras {
			b := c.Bounds()
			r.Config.Cameras = append(r.Config.Cameras, expcomp.Region{0, 0, b.Dx(), b.Dy()})
		}
	}

	if len(r.Config.Cameras) != len(r.Cameras) {
		return fmt.Errorf("%w: config has %d camera regions, but %d images were loaded",
			expcomp.ErrConfiguration, len(r.Config.Cameras), len(r.Cameras))
	}

	return r.Config.Validate()
}

// Stack draws every camera into its own band of a single packed frame,
// camera i occupying rows [i*h, (i+1)*h). Anything a camera doesn't cover,
// and any fully transparent pixel, becomes NoData.
func (r Rig)Stack() (*image.RGBA, int) {
	band := r.BandSize()
	img := image.NewRGBA(image.Rect(0, 0, band.X, band.Y*len(r.Cameras)))

	nodata := ecolor.NoData
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{nodata.R(), nodata.G(), nodata.B(), nodata.A()}), image.Point{}, draw.Src)

	for i, c := range r.Cameras {
		b := c.Bounds()
		dst := image.Rectangle{Max: b.Size()}.Add(image.Point{0, i * band.Y})
		draw.Draw(img, dst, c.Image, b.Min, draw.Src)

		for y := dst.Min.Y; y < dst.Max.Y; y++ {
			for x := dst.Min.X; x < dst.Max.X; x++ {
				if _, _, _, a := c.Image.At(b.Min.X+x-dst.Min.X, b.Min.Y+y-dst.Min.Y).RGBA(); a == 0 {
					ecolor.Store(img.Pix[img.PixOffset(x, y):], ecolor.NoData)
				}
			}
		}
	}

	return img, band.Y
}

// Split returns each camera's band of a stacked frame, cropped to the
// camera's own image size. The bands share pixels with img.
func (r Rig)Split(img *image.RGBA, bandHeight int) []*image.RGBA {
	ret := []*image.RGBA{}
	for i, c := range r.Cameras {
		sub := image.Rectangle{Max: c.Bounds().Size()}.Add(image.Point{img.Rect.Min.X, img.Rect.Min.Y + i*bandHeight})
		ret = append(ret, img.SubImage(sub).(*image.RGBA))
	}
	return ret
}

// PredictedGains are the gains the cameras' EXIF exposure settings imply,
// relative to the first camera. They're only available if every camera
// had EXIF data.
func (r Rig)PredictedGains() (expcomp.Gains, bool) {
	if len(r.Cameras) == 0 {
		return nil, false
	}
	ret := expcomp.Gains{}
	for _, c := range r.Cameras {
		if !c.HasEXIF {
			return nil, false
		}
		ret = append(ret, c.ExposureValue.PredictedGain(r.Cameras[0].ExposureValue))
	}
	return ret, true
}
