package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/inbox/internal/domain"
)

// InitRemoteInput contains the parameters for preparing the remote store.
type InitRemoteInput struct{}

// InitRemoteOutput contains the result of preparing the remote store.
type InitRemoteOutput struct{}

// InitRemote is the use case for creating the remote tables.
type InitRemote struct {
	remote domain.RemoteInitializer
}

// NewInitRemote creates a new InitRemote use case.
func NewInitRemote(remote domain.RemoteInitializer) *InitRemote {
	return &InitRemote{remote: remote}
}

// Execute checks connectivity and applies the schema.
func (uc *InitRemote) Execute(ctx context.Context, _ InitRemoteInput) (*InitRemoteOutput, error) {
	if err := uc.remote.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping remote: %w", err)
	}
	if err := uc.remote.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &InitRemoteOutput{}, nil
}
