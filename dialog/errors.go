package dialog

import "fmt"

// ResultTypeError reports a custom dialog result that did not match the
// type the caller asked for. It matches ErrResultType with errors.Is.
type ResultTypeError struct {
	Key  string
	Got  any
	Want any
}

func (e *ResultTypeError) Error() string {
	return fmt.Sprintf("custom dialog %q: got %T, want %T", e.Key, e.Got, e.Want)
}

func (e *ResultTypeError) Is(target error) bool {
	return target == ErrResultType
}
