package expcomp

import(
	"fmt"
	"image"
	"io/ioutil"
	"math"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

/* Example config file ...

alpha: 0.01
beta: 100
intensity: rgbmean
statsworkers: 4
cameras:
  - [   0,   0, 1920, 960]
  - [1600,   0, 3840, 960]
  - [3520,   0, 4096, 960]

*/

// A Region is a camera's valid footprint, [startX, startY, endX, endY),
// in the coordinates of that camera's band of the stacked frame.
type Region [4]int

// Rect does not canonicalize, so a backwards region stays empty.
func (r Region)Rect() image.Rectangle {
	return image.Rectangle{Min: image.Point{r[0], r[1]}, Max: image.Point{r[2], r[3]}}
}

func RegionFromRect(r image.Rectangle) Region {
	return Region{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

type Config struct {
	Verbosity     int

	Alpha         float64  // Weight of pairwise consistency; must be < 1
	Beta          float64  // Weight pulling each gain towards 1.0; must be >= 1
	Intensity     ecolor.IntensityPolicy

	StatsWorkers  int      // How many goroutines scan overlaps; <=0 means one per CPU
	TileWidth     int      // Overlaps are scanned in tiles of this size
	TileHeight    int

	Cameras       []Region
}

// NewConfig returns the defaults. The alpha/beta pair corresponds to an
// intensity noise sigma of 10 and a gain sigma of 0.1.
func NewConfig() Config {
	return Config{
		Alpha:      0.01,
		Beta:       100.0,
		Intensity:  ecolor.PolicyRGBMean,
		TileWidth:  128,
		TileHeight: 32,
		Cameras:    []Region{},
	}
}

func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: parse yaml: %v", ErrConfiguration, err)
	}
	return c, nil
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}
	return NewConfigFromYaml(contents)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)Regions() []image.Rectangle {
	ret := make([]image.Rectangle, len(c.Cameras))
	for i, r := range c.Cameras {
		ret[i] = r.Rect()
	}
	return ret
}

// Validate checks everything that can be checked before seeing a frame.
func (c Config)Validate() error {
	if math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0) || c.Alpha >= 1.0 {
		return fmt.Errorf("%w: alpha %v must be finite and < 1.0", ErrConfiguration, c.Alpha)
	}
	if math.IsNaN(c.Beta) || math.IsInf(c.Beta, 0) || c.Beta < 1.0 {
		return fmt.Errorf("%w: beta %v must be finite and >= 1.0", ErrConfiguration, c.Beta)
	}
	if _, err := c.Intensity.Func(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if len(c.Cameras) == 0 {
		return fmt.Errorf("%w: no camera regions", ErrConfiguration)
	}
	for i, r := range c.Cameras {
		if rect := r.Rect(); rect.Empty() || rect.Min.X < 0 || rect.Min.Y < 0 {
			return fmt.Errorf("%w: camera %d has unusable region %v", ErrConfiguration, i, r)
		}
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrConfiguration, c.TileWidth, c.TileHeight)
	}
	return nil
}
