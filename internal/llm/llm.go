package llm

import (
	"context"
	"errors"
)

// Client abstracts the generative model behind the resume endpoints.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single model call.
type Request struct {
	SystemInstruction string
	Prompt            string
	// ExpectJSON asks the model for a JSON document and rejects any other reply.
	ExpectJSON bool
}

var (
	// ErrGateway wraps every failure of the model call itself: network, auth,
	// quota and service errors are not told apart.
	ErrGateway = errors.New("model gateway failure")
	// ErrInvalidJSON is returned when JSON was required and the reply is not JSON.
	ErrInvalidJSON = errors.New("model returned invalid JSON")
)
