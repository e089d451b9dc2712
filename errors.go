package puppet

import "fmt"

// DataMismatchError reports that the live point count no longer matches the
// topology's point count at sync time. This happens when a caller resizes the
// slice returned by Mesh.Points instead of calling Rebuffer. The offending
// draw is aborted; the mesh stays dirty.
type DataMismatchError struct {
	Points int // live point count
	Origin int // topology origin point count
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf("puppet: live point count %d does not match topology point count %d (resized without Rebuffer?)",
		e.Points, e.Origin)
}

// ResourceError reports a device buffer allocation or static-data upload
// failure at construction or rebuffer time. Fatal to the mesh instance.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("puppet: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// RenderError reports a device failure during the draw-time call sequence.
// Fatal to that frame's draw of the mesh; not retried.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("puppet: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
