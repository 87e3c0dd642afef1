package ecolor

import (
	"encoding/binary"
	"fmt"
)

// A Packed pixel is one 32-bit word from an RGBX frame: low byte R, then
// G, then B, and the high byte carries alpha (or luma, depending on what
// produced the frame). In an image.RGBA Pix slice that is the natural byte
// order, read little-endian.
type Packed uint32

// NoData marks a pixel that is outside the blend mask. It is never counted
// in statistics and never has a gain applied to it.
const NoData Packed = 0x80000000

// IsValid is the only place that knows how "no data" is encoded.
func (p Packed) IsValid() bool { return p != NoData }

func (p Packed) R() uint8 { return uint8(p) }
func (p Packed) G() uint8 { return uint8(p >> 8) }
func (p Packed) B() uint8 { return uint8(p >> 16) }
func (p Packed) A() uint8 { return uint8(p >> 24) }

func (p Packed) String() string {
	if !p.IsValid() {
		return "[nodata]"
	}
	return fmt.Sprintf("[%3d, %3d, %3d, %3d]", p.R(), p.G(), p.B(), p.A())
}

func Pack(r, g, b, a uint8) Packed {
	return Packed(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// Load reads the pixel at the start of pix.
func Load(pix []byte) Packed { return Packed(binary.LittleEndian.Uint32(pix)) }

// Store writes the pixel to the start of pix.
func Store(pix []byte, p Packed) { binary.LittleEndian.PutUint32(pix, uint32(p)) }

// Saturate clamps to the range of a channel byte.
func Saturate(n int) uint8 {
	if n > 255 {
		return 255
	} else if n < 0 {
		return 0
	}
	return uint8(n)
}

// Scale multiplies every byte of the pixel by gain, truncating towards zero
// and saturating. NoData passes through untouched.
func (p Packed) Scale(gain float64) Packed {
	if !p.IsValid() {
		return p
	}
	return Pack(
		Saturate(int(float64(p.R())*gain)),
		Saturate(int(float64(p.G())*gain)),
		Saturate(int(float64(p.B())*gain)),
		Saturate(int(float64(p.A())*gain)),
	)
}
