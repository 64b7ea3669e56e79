// Package llmmock provides a testify mock of llm.Client.
package llmmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-coach/internal/llm"
)

type Client struct {
	mock.Mock
}

func (m *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var _ llm.Client = (*Client)(nil)
