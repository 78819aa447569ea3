package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/inbox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRemote_Execute(t *testing.T) {
	remote := &testutil.MockRemoteInitializer{}
	uc := NewInitRemote(remote)

	_, err := uc.Execute(context.Background(), InitRemoteInput{})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), InitRemoteInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, remote.Applied)
}

func TestInitRemote_Execute_PingFails(t *testing.T) {
	pingErr := errors.New("connection refused")
	remote := &testutil.MockRemoteInitializer{PingErr: pingErr}

	_, err := NewInitRemote(remote).Execute(context.Background(), InitRemoteInput{})

	assert.ErrorIs(t, err, pingErr)
	assert.ErrorContains(t, err, "ping remote")
	assert.Zero(t, remote.Applied)
}

func TestInitRemote_Execute_SchemaFails(t *testing.T) {
	schemaErr := errors.New("permission denied")
	remote := &testutil.MockRemoteInitializer{SchemaErr: schemaErr}

	_, err := NewInitRemote(remote).Execute(context.Background(), InitRemoteInput{})

	assert.ErrorIs(t, err, schemaErr)
	assert.ErrorContains(t, err, "apply schema")
}
