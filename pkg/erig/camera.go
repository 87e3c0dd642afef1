package erig

import (
	"fmt"
	"image"
	"path/filepath"
)

// A Camera is one view of the rig, as loaded from an image file.
type Camera struct {
	LoadFilename       string
	ExposureValue                   // Only filled in if HasEXIF
	HasEXIF            bool

	image.Image
}

func (c Camera)String() string {
	str := fmt.Sprintf("%s: %dx%d", c.Filename(), c.Bounds().Dx(), c.Bounds().Dy())
	if c.HasEXIF {
		str += ", " + c.ExposureValue.String()
	}
	return str
}

func (c Camera)Filename() string {
	return filepath.Base(c.LoadFilename)
}
