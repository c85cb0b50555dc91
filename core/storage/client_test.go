package storage_test

import (
	"testing"

	"autosync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		wantErr  bool
	}{
		{"BareHost", "localhost:9000", false, false},
		{"HTTPScheme", "http://minio.internal:9000", false, false},
		{"HTTPSScheme", "https://s3.amazonaws.com", true, false},
		{"PathNotAllowed", "localhost:9000/reports", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(storage.Config{
				Endpoint:  tt.endpoint,
				AccessKey: "key",
				SecretKey: "secret",
				UseSSL:    tt.useSSL,
				Bucket:    "autosync",
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create minio client")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client, err := storage.NewClient(storage.Config{Endpoint: "localhost:9000", TimeoutSeconds: -1})
	require.NoError(t, err)

	archive := storage.NewArchive(client, storage.Config{Bucket: "autosync", ReportPrefix: "reports"})
	assert.Equal(t, "reports/run-1.json", archive.Key("run-1"))
}
