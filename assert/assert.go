package assert

import "github.com/oomph-ac/blueprint/oerror"

// IsTrue panics with a BlueprintError built from message and args if ok is false. It guards internal
// invariants only: a failure means the solver itself is broken, never that the input was bad.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// Unreachable panics unconditionally.
func Unreachable(message string, args ...interface{}) {
	panic(oerror.New("unreachable: "+message, args...))
}
