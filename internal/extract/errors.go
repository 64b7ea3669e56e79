package extract

import "errors"

// Kinds of extraction failure. Match them with errors.Is.
var (
	ErrMissingResume   = errors.New("missing resume")
	ErrEmptyExtraction = errors.New("empty extraction")
	ErrCorruptFile     = errors.New("corrupt file")
)

// Error is an extraction failure carrying the message shown to the caller.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}
