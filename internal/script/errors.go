package script

import "fmt"

// Error reports a script that failed to compile or raised an error.
type Error struct {
	Script string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
