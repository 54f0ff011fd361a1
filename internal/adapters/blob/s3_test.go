package blob

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/domain"
)

func TestNewStore_WithoutBucket(t *testing.T) {
	store := NewStore(Config{})
	ctx := context.Background()

	require.ErrorIs(t, store.Put(ctx, "k", "image/png", strings.NewReader("x"), 1), domain.ErrNotConfigured)
	require.ErrorIs(t, store.Delete(ctx, "k"), domain.ErrNotConfigured)
	_, err := store.SignedURL(ctx, "k", time.Hour)
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestS3Store_SignedURL(t *testing.T) {
	store := NewStore(Config{
		Bucket:          "event-media",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})

	raw, err := store.SignedURL(context.Background(), "ev-1/1700000000000-abc123.jpg", 30*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/event-media/ev-1/1700000000000-abc123.jpg", u.Path)
	q := u.Query()
	assert.Equal(t, "1800", q.Get("X-Amz-Expires"))
	assert.Equal(t, "AWS4-HMAC-SHA256", q.Get("X-Amz-Algorithm"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.True(t, strings.HasPrefix(q.Get("X-Amz-Credential"), "minio/"))
}
