package main

import(
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abworrall/expcomp/pkg/ecolor"
	"github.com/abworrall/expcomp/pkg/emath"
	"github.com/abworrall/expcomp/pkg/erig"
	"github.com/abworrall/expcomp/pkg/expcomp"
)

var(
	fVerbosity int
	fAlpha float64
	fBeta float64
	fIntensity string
	fWorkers int
	fOutput string
	fSplit bool
	fHDR string
	fDumpGrids bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get (1=debug, 2=trace)")
	flag.Float64Var(&fAlpha, "alpha", 0.01, "weight of pairwise photometric agreement, must be < 1")
	flag.Float64Var(&fBeta, "beta", 100, "weight pulling every gain towards 1.0, must be >= 1")
	flag.StringVar(&fIntensity, "intensity", "rgbmean", "how to measure pixel intensity: "+fmt.Sprintf("%v", ecolor.ListIntensityPolicies()))
	flag.IntVar(&fWorkers, "workers", 0, "goroutines scanning overlaps (0 means one per CPU)")
	flag.StringVar(&fOutput, "o", "compensated.png", "where to write the compensated, stacked frame")
	flag.BoolVar(&fSplit, "split", false, "also write one compensated PNG per camera")
	flag.StringVar(&fHDR, "hdr", "", "if set, write an unclipped Radiance HDR preview here")
	flag.BoolVar(&fDumpGrids, "dumpgrids", false, "write heatmaps of the overlap statistics")
	flag.Parse()
}

func initLogger(verbosity int) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	if verbosity > 0 {
		logger.SetLevel(logrus.DebugLevel)
		if verbosity > 1 {
			logger.SetLevel(logrus.TraceLevel)
		}
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

// applyFlags overrides the loaded config, but only with flags that were
// actually given on the command line.
func applyFlags(cfg *expcomp.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":         cfg.Verbosity = fVerbosity
		case "alpha":     cfg.Alpha = fAlpha
		case "beta":      cfg.Beta = fBeta
		case "intensity": cfg.Intensity = ecolor.IntensityPolicy(fIntensity)
		case "workers":   cfg.StatsWorkers = fWorkers
		}
	})
}

func main() {
	logger := initLogger(fVerbosity)

	rig := erig.NewRig()
	if err := rig.LoadFilesAndDirs(flag.Args()...); err != nil {
		logger.Fatal(err)
	}
	applyFlags(&rig.Config)
	if err := rig.FinalizeConfig(); err != nil {
		logger.Fatal(err)
	}

	if rig.Verbosity > 0 {
		logger.Debugf("%s", rig)
		logger.Debugf("Final configuration:-\n\n%s\n", rig.Config.AsYaml())
	}

	comp, err := expcomp.NewCompensator(rig.Config, expcomp.WithLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}

	in, bandHeight := rig.Stack()
	out := image.NewRGBA(in.Rect)
	frame := &expcomp.MemoryFrame{In: in, Out: out}

	gains, err := comp.ProcessFrame(frame)
	if err != nil {
		logger.Fatal(err)
	}
	logger.WithFields(logrus.Fields{"gains": gains.String()}).Info("Exposure compensated")

	if predicted, ok := rig.PredictedGains(); ok {
		logger.WithFields(logrus.Fields{"predicted": predicted.String()}).Info("Gains implied by EXIF exposure")
	}

	if report, err := comp.Report(out, gains); err != nil {
		logger.Warnf("no report: %v", err)
	} else {
		logger.Infof("%s", report)
	}

	if err := erig.WritePNG(out, fOutput); err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Wrote %s", fOutput)

	if fSplit {
		for i, band := range rig.Split(out, bandHeight) {
			name := rig.Cameras[i].Filename()
			filename := "compensated-" + strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
			if err := erig.WritePNG(band, filename); err != nil {
				logger.Fatal(err)
			}
		}
	}

	if fHDR != "" {
		preview := erig.GainPreview{In: in, BandHeight: bandHeight, Gains: gains}
		if err := preview.WriteToHDR(fHDR); err != nil {
			logger.Fatal(err)
		}
	}

	if fDumpGrids {
		st := comp.LastStatistics()
		counts := emath.NewFloatGridFromMatrix(st.CountMatrix())
		intensities := emath.NewFloatGridFromMatrix(st.IntensityMatrix())
		if err := counts.ToImg("overlap pixel counts", "grid-counts.png"); err != nil {
			logger.Fatal(err)
		}
		if err := intensities.ToImg("overlap intensities, row=camera", "grid-intensities.png"); err != nil {
			logger.Fatal(err)
		}
		logger.Debugf("counts: %s, intensities: %s", counts.Stats(), intensities.Stats())
	}
}
