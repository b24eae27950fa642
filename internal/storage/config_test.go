package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinIOConfigValidate(t *testing.T) {
	var nilCfg *MinIOConfig
	require.Error(t, nilCfg.Validate())
	require.Error(t, (&MinIOConfig{Bucket: "b"}).Validate())
	require.Error(t, (&MinIOConfig{Endpoint: "localhost:9000"}).Validate())
	require.NoError(t, (&MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}).Validate())
}

func TestNewMinIOStorage_RejectsMissingConfig(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), &MinIOConfig{})
	require.Error(t, err)
}
