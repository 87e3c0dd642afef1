package erig

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/tiff"

	"github.com/abworrall/expcomp/pkg/expcomp"
)

// LoadFilesAndDirs loads camera images (TIFF or PNG) and rig config
// (YAML) files. Directories are walked, one level per call.
func (r *Rig)LoadFilesAndDirs(args ...string) (error) {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := r.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default: // is a file, load it
			if err := r.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

func (r *Rig)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".tif", ".tiff":
		cam, err := loadTIFF(filename)
		if err != nil {
			return fmt.Errorf("loading %s as TIFF failed: %v", filename, err)
		}
		r.AddCamera(cam)

	case ".png":
		cam, err := loadPNG(filename)
		if err != nil {
			return fmt.Errorf("loading %s as PNG failed: %v", filename, err)
		}
		r.AddCamera(cam)

	case ".yaml", ".yml":
		cfg, err := expcomp.LoadConfig(filename)
		if err != nil {
			return fmt.Errorf("loading %s as config YAML failed: %v", filename, err)
		}
		r.Config = cfg
		r.HaveConfig = true
		log.Infof("Loaded rig configuration from %s", filename)

	default:
		log.Debugf("Ignoring %s", filename)
	}

	return nil
}

func loadPNG(filename string) (Camera, error) {
	cam := Camera{LoadFilename: filename}

	if reader, err := os.Open(filename); err != nil {
		return cam, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := png.Decode(reader); err != nil {
			return cam, fmt.Errorf("png loading '%s': %v", filename, err)
		} else {
			cam.Image = img
		}
	}

	return cam, nil
}

func loadTIFF(filename string) (Camera, error) {
	cam := Camera{LoadFilename: filename}

	// EXIF is nice to have, but we can compensate without it
	if ev, err := loadEXIF(filename); err != nil {
		log.Debugf("%s: no usable exposure info: %v", filename, err)
	} else {
		cam.ExposureValue = ev
		cam.HasEXIF = true
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return cam, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := tiff.Decode(reader); err != nil {
			return cam, fmt.Errorf("tiff loading '%s': %v", filename, err)
		} else {
			cam.Image = img
		}
	}

	return cam, nil
}

func loadEXIF(filename string) (ExposureValue, error) {
	ev := ExposureValue{}

	reader, err := os.Open(filename)
	if err != nil {
		return ev, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ev, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag,err := ex.Get(exif.ISOSpeedRatings); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else if val,err := tag.Int64(0); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else {
		ev.ISO = val
	}

	if tag,err := ex.Get(exif.FNumber); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if denom == 0 {
		return ev, fmt.Errorf("exif FNumber '%s': zero denominator", filename)
	} else {
		ev.ApertureX10 = (num * 10) / denom
	}

	if tag,err := ex.Get(exif.ExposureTime); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else {
		ev.ShutterSpeed = rat64{num, denom}
	}

	if err := ev.Validate(); err != nil {
		return ev, fmt.Errorf("image '%s' EV: %v", filename, err)
	}

	return ev, nil
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
