package s3storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/DocFlow/internal/config"
)

func TestPresignedURLIsOffline(t *testing.T) {
	s, err := New(config.StorageConfig{
		Endpoint:        "localhost:9000",
		AccessKey:       "minioadmin",
		SecretKey:       "minioadmin",
		Region:          "us-east-1",
		DocumentsBucket: "docs",
		UploadsBucket:   "uploads",
	})
	require.NoError(t, err)

	raw, err := s.PresignedURL(context.Background(), "documents/a.docx", 5*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/docs/documents/a.docx", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	raw, err = s.PresignSignFile(context.Background(), "r1/contract.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw, "/uploads/r1/contract.pdf"), raw)
}
