package expcomp

import "errors"

// Every error returned by a Compensator wraps exactly one of these, so
// callers can tell a bad setup from a failed frame with errors.Is.
var (
	// ErrConfiguration covers bad alpha/beta, no cameras, malformed regions,
	// and frames whose shape doesn't match the camera layout. Nothing has
	// been read or written when it is returned.
	ErrConfiguration = errors.New("bad configuration")

	// ErrBufferAccess is a failure to map or commit an image buffer.
	ErrBufferAccess = errors.New("buffer access failed")

	// ErrNumericalDegeneracy means the gain system had an effectively zero
	// pivot. The frame is rejected and the output buffer is not written.
	ErrNumericalDegeneracy = errors.New("gain system is numerically degenerate")
)
