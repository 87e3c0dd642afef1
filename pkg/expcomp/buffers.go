package expcomp

import (
	"fmt"
	"image"
)

// FrameBuffers is whatever owns the image memory for one frame. The
// compensator maps the input, then the output, does all its reading and
// writing, and finally calls Commit. Nothing touches either buffer after
// Commit has been called.
type FrameBuffers interface {
	MapInput() (*image.RGBA, error)
	MapOutput() (*image.RGBA, error)
	Commit() error
}

// MemoryFrame is a FrameBuffers over plain in-memory images. A nil Out is
// allocated to match In when the output is mapped.
type MemoryFrame struct {
	In  *image.RGBA
	Out *image.RGBA

	Committed bool
}

func NewMemoryFrame(in *image.RGBA) *MemoryFrame {
	return &MemoryFrame{In: in}
}

func (mf *MemoryFrame) MapInput() (*image.RGBA, error) {
	if mf.In == nil {
		return nil, fmt.Errorf("no input image")
	}
	return mf.In, nil
}

func (mf *MemoryFrame) MapOutput() (*image.RGBA, error) {
	if mf.Out == nil {
		if mf.In == nil {
			return nil, fmt.Errorf("no output image, and no input to size one from")
		}
		mf.Out = image.NewRGBA(mf.In.Rect)
	}
	return mf.Out, nil
}

func (mf *MemoryFrame) Commit() error {
	mf.Committed = true
	return nil
}
