package oerror

import "fmt"

// BlueprintError is the error type returned by the solver packages. Sentinel values below are compared
// with errors.Is, and callers wrap them with fmt.Errorf to attach positions.
type BlueprintError struct {
	Err string
}

// New returns a BlueprintError with the formatted message.
func New(format string, args ...interface{}) *BlueprintError {
	if len(args) == 0 {
		return &BlueprintError{Err: format}
	}
	return &BlueprintError{Err: fmt.Sprintf(format, args...)}
}

func (e *BlueprintError) Error() string {
	return e.Err
}

var (
	// ErrUnsolvable is returned when no amount of scaffolding can give a component a path to the ground.
	ErrUnsolvable = New("region cannot be supported by any scaffolding")
	// ErrUnreachable is returned when the remaining placements cannot be reached from the anchor.
	ErrUnreachable = New("no remaining placement is reachable from the anchor")
	// ErrOutOfBounds is returned for positions outside the region being planned.
	ErrOutOfBounds = New("position is outside the region")
	// ErrInvalidSchematic is returned when a schematic cannot be decoded.
	ErrInvalidSchematic = New("invalid schematic")
)
