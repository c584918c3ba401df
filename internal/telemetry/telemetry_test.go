package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "chatnest", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_WithEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), "localhost:4318", "chatnest", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
