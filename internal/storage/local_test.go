package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_PutGetObject(t *testing.T) {
	dir := t.TempDir()
	provider := NewLocalProvider(dir)

	content := []byte(`{"model": {"type": "Sequential"}}`)
	err := provider.PutObject(context.Background(), "models", "nested/model.json", bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "models", "nested", "model.json"))
	require.NoError(t, err)
	assert.Equal(t, content, data)

	data, err = provider.GetObject(context.Background(), "models", "nested/model.json")
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalProvider_EmptyBucket(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), []byte("name: m"), 0644))

	data, err := NewLocalProvider(dir).GetObject(context.Background(), "", "model.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("name: m"), data)
}

func TestLocalProvider_MissingObject(t *testing.T) {
	_, err := NewLocalProvider(t.TempDir()).GetObject(context.Background(), "", "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalProvider_CreateBucket(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewLocalProvider(dir).CreateBucket(context.Background(), "models"))

	info, err := os.Stat(filepath.Join(dir, "models"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://models/char-mlp/model.json")
	require.NoError(t, err)
	assert.Equal(t, "models", bucket)
	assert.Equal(t, "char-mlp/model.json", key)

	assert.True(t, IsS3URI("s3://a/b"))
	assert.False(t, IsS3URI("./model.json"))

	for _, uri := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key", "model.json"} {
		_, _, err := ParseS3URI(uri)
		assert.Error(t, err, uri)
	}
}
