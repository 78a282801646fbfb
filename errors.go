package zarrgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/zarrgo/dtype"
)

// ErrNodeType is returned when a path resolves to a node of the wrong
// kind, e.g. opening a group document as an array.
var ErrNodeType = errors.New("unexpected node type")

// ShapeMismatchError reports a chunk whose shape disagrees with the
// array's chunk shape. It is a caller error, surfaced before any IO.
type ShapeMismatchError struct {
	Want []int
	Got  []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: chunk is %v, want %v", e.Got, e.Want)
}

// TypeMismatchError reports a chunk whose element type disagrees with the
// array's data type. It is a caller error, surfaced before any IO.
type TypeMismatchError struct {
	Want dtype.Type
	Got  dtype.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: chunk is %s, want %s", e.Got, e.Want)
}
