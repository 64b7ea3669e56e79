package coach

import "errors"

var (
	ErrMissingJobRole = errors.New("job role is required")
	ErrResponseParse  = errors.New("failed to parse model response")
)
