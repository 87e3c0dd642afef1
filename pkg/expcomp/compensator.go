package expcomp

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abworrall/expcomp/pkg/ecolor"
	"github.com/abworrall/expcomp/pkg/emath"
)

// Gains holds one multiplicative gain per camera.
type Gains []float64

func (g Gains) String() string {
	strs := []string{}
	for i, v := range g {
		strs = append(strs, fmt.Sprintf("cam%d:%.4f", i, v))
	}
	return "Gains[" + strings.Join(strs, ", ") + "]"
}

// A Compensator holds everything about a camera rig that doesn't change
// from frame to frame: the validated config and the overlap matrix.
type Compensator struct {
	Config

	regions   []image.Rectangle
	overlaps  OverlapMatrix
	intensity ecolor.IntensityFunc
	log       *logrus.Logger

	lastStats Statistics
}

type Option func(*Compensator)

func WithLogger(l *logrus.Logger) Option {
	return func(c *Compensator) { c.log = l }
}

// NewCompensator validates the config and intersects the camera regions.
// Any error wraps ErrConfiguration.
func NewCompensator(cfg Config, opts ...Option) (*Compensator, error) {
	c := &Compensator{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compensator) configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f, _ := cfg.Intensity.Func()

	c.Config = cfg
	c.regions = cfg.Regions()
	c.overlaps = Intersect(c.regions)
	c.intensity = f
	c.lastStats = Statistics{}

	c.log.WithFields(logrus.Fields{
		"cameras":   len(c.regions),
		"alpha":     cfg.Alpha,
		"beta":      cfg.Beta,
		"intensity": cfg.Intensity,
	}).Info("exposure compensator configured")
	c.log.Debugf("%s", c.overlaps)

	return nil
}

// Reconfigure swaps in a new set of camera regions, recomputing the
// overlaps. On error the compensator keeps its old regions.
func (c *Compensator) Reconfigure(regions []image.Rectangle) error {
	cfg := c.Config
	cfg.Cameras = make([]Region, len(regions))
	for i, r := range regions {
		cfg.Cameras[i] = RegionFromRect(r)
	}
	return c.configure(cfg)
}

func (c *Compensator) NumCameras() int { return len(c.regions) }
func (c *Compensator) Overlaps() OverlapMatrix { return c.overlaps }

// LastStatistics are from the most recent frame that got as far as being
// scanned.
func (c *Compensator) LastStatistics() Statistics { return c.lastStats }

// CheckFrame makes sure a frame matches the rig: the height splits evenly
// into one band per camera, the output is the same size as the input, and
// every region fits in its band. It returns the band height.
func (c *Compensator) CheckFrame(in, out *image.RGBA) (int, error) {
	if in == nil || out == nil {
		return 0, fmt.Errorf("%w: missing input or output image", ErrBufferAccess)
	}
	n := c.NumCameras()
	h := in.Rect.Dy()
	if h == 0 || h%n != 0 {
		return 0, fmt.Errorf("%w: frame height %d is not a multiple of %d cameras", ErrConfiguration, h, n)
	}
	if in.Rect.Size() != out.Rect.Size() {
		return 0, fmt.Errorf("%w: output %v doesn't match input %v", ErrConfiguration, out.Rect.Size(), in.Rect.Size())
	}
	bandHeight := h / n
	if err := checkBands(c.regions, in.Rect.Dx(), bandHeight); err != nil {
		return 0, err
	}
	return bandHeight, nil
}

// Process computes the gains for one stacked frame and writes the
// compensated frame to out. If it returns an error, out has not been
// written.
func (c *Compensator) Process(in, out *image.RGBA) (Gains, error) {
	bandHeight, err := c.CheckFrame(in, out)
	if err != nil {
		return nil, err
	}

	gains, err := c.Solve(in, bandHeight)
	if err != nil {
		return nil, err
	}

	ApplyGains(in, out, bandHeight, c.regions, gains)

	for i, g := range gains {
		c.log.WithFields(logrus.Fields{"camera": i, "gain": g}).Debug("gain applied")
	}

	return gains, nil
}

// Solve runs the statistics scan and solves for the gains, without
// writing anything.
func (c *Compensator) Solve(in *image.RGBA, bandHeight int) (Gains, error) {
	st := CollectStatistics(in, bandHeight, c.overlaps, ScanParams{
		Intensity:  c.intensity,
		TileWidth:  c.TileWidth,
		TileHeight: c.TileHeight,
		Workers:    c.StatsWorkers,
	})
	c.lastStats = st
	c.log.Tracef("%s", st)

	sys := BuildSystem(st, c.Alpha, c.Beta)
	g, err := emath.SolveGauss(sys)
	if errors.Is(err, emath.ErrSingular) {
		return nil, fmt.Errorf("%w: %v", ErrNumericalDegeneracy, err)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return Gains(g), nil
}

// ProcessFrame runs Process against buffers owned by someone else. A
// failure to map either buffer aborts before anything is written. If the
// commit fails, the gains are still returned alongside the error, and the
// output that was written in memory stays as it is.
func (c *Compensator) ProcessFrame(fb FrameBuffers) (Gains, error) {
	in, err := fb.MapInput()
	if err != nil {
		return nil, fmt.Errorf("%w: map input: %v", ErrBufferAccess, err)
	}
	out, err := fb.MapOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: map output: %v", ErrBufferAccess, err)
	}

	gains, err := c.Process(in, out)
	if err != nil {
		return nil, err
	}

	if err := fb.Commit(); err != nil {
		return gains, fmt.Errorf("%w: commit output: %v", ErrBufferAccess, err)
	}
	return gains, nil
}
