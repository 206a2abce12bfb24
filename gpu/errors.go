package gpu

import "github.com/cockroachdb/errors"

// Drivers mark the errors they return with one of these when the API result
// falls into the class. Test with errors.Is.
var (
	ErrOutOfDate   = errors.New("surface out of date")
	ErrSurfaceLost = errors.New("surface lost")
	ErrDeviceLost  = errors.New("device lost")
	ErrTimeout     = errors.New("timeout")
)
