package buffer

import "errors"

// ErrOutOfBounds is returned when an offset or range falls outside the
// buffer. The buffer is left unchanged.
var ErrOutOfBounds = errors.New("buffer: out of bounds")
