package curve

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned for a path without segments.
	ErrEmptyPath = errors.New("path has no segments")
	// ErrZeroLength is returned when a segment collapses to a point.
	ErrZeroLength = errors.New("segment has zero length")
	// ErrControlPoints is returned when a spec has the wrong number of points.
	ErrControlPoints = errors.New("wrong control point count")
	// ErrUnknownKind is returned for an unsupported segment kind.
	ErrUnknownKind = errors.New("unknown segment kind")
	// ErrSegments is returned when a frame sample count is below one.
	ErrSegments = errors.New("frame segments must be positive")
)

// DiscontinuityError reports a gap between consecutive segments.
// Segment is the index of the segment whose start does not meet the
// previous end; it is 0 for the closing gap of a cyclic path.
type DiscontinuityError struct {
	Segment int
	Gap     float32
}

func (e *DiscontinuityError) Error() string {
	return fmt.Sprintf("path discontinuous before segment %d (gap %.4f)", e.Segment, e.Gap)
}
