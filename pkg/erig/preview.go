package erig

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	log "github.com/sirupsen/logrus"

	"github.com/abworrall/expcomp/pkg/ecolor"
	"github.com/abworrall/expcomp/pkg/expcomp"
)

// GainPreview is a stacked frame with the gains applied but not clipped,
// so anything that would saturate can be inspected in an HDR viewer.
// Implements the hdr.Image interface.
type GainPreview struct {
	In          *image.RGBA
	BandHeight  int
	Gains       expcomp.Gains
}

// Implement image.Image
func (gp GainPreview)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (gp GainPreview)Bounds() image.Rectangle       { return gp.In.Rect }
func (gp GainPreview)At(x, y int) color.Color       { return gp.HDRAt(x,y) }

// Implement hdr.Image
func (gp GainPreview)Size() int                     { return gp.Bounds().Dx() * gp.Bounds().Dy() }
func (gp GainPreview)HDRAt(x, y int) hdrcolor.Color {
	p := ecolor.Load(gp.In.Pix[gp.In.PixOffset(x, y):])
	if !p.IsValid() {
		return hdrcolor.RGB{}
	}

	cam := (y - gp.In.Rect.Min.Y) / gp.BandHeight
	g := 1.0
	if cam < len(gp.Gains) {
		g = gp.Gains[cam]
	}
	return hdrcolor.RGB{
		R: float64(p.R()) / 255.0 * g,
		G: float64(p.G()) / 255.0 * g,
		B: float64(p.B()) / 255.0 * g,
	}
}

// WriteToHDR outputs a Radiance RGBE file.
func (gp GainPreview)WriteToHDR(filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("GainPreview.WriteToHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		err := rgbe.Encode(writer, gp)
		if err != nil {
			log.Errorf("GainPreview.WriteToHDR, encoding RGBE file: %v", err)
		}
		return err
	}
}
