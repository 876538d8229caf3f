package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal path-style S3 endpoint.
type fakeStore struct {
	mu           sync.Mutex
	buckets      map[string]bool
	objects      map[string]string
	contentTypes map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		buckets:      map[string]bool{},
		objects:      map[string]string{},
		contentTypes: map[string]string{},
	}
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case len(parts) == 1 && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case len(parts) == 2 && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+parts[1]] = string(body)
		f.contentTypes[bucket+"/"+parts[1]] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// testClient creates a Client backed by a test HTTP server.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})
	return &Client{s3: client, region: "us-east-1"}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	c, err := NewClient(context.Background(), "https://storage.example.com", "eu-central", "ak", "sk", true)
	require.NoError(t, err)
	assert.Equal(t, "eu-central", c.Region())
}

func TestEnsureBucket_CreatesMissing(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	c := testClient(t, store)

	require.NoError(t, c.EnsureBucket(context.Background(), "init-logs"))
	assert.True(t, store.buckets["init-logs"])

	// Second call sees the existing bucket.
	require.NoError(t, c.EnsureBucket(context.Background(), "init-logs"))
}

func TestBucketExists(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.buckets["present"] = true
	c := testClient(t, store)

	ok, err := c.BucketExists(context.Background(), "present")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.BucketExists(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUploadFile(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.buckets["init-logs"] = true
	c := testClient(t, store)

	path := filepath.Join(t.TempDir(), "sparklyr_init.log")
	require.NoError(t, os.WriteFile(path, []byte("installing sparklyr\ndone\n"), 0o644))

	require.NoError(t, c.UploadFile(context.Background(), "init-logs", "node-1/sparklyr_init.log", path))
	assert.Equal(t, "installing sparklyr\ndone\n", store.objects["init-logs/node-1/sparklyr_init.log"])
	assert.Contains(t, store.contentTypes["init-logs/node-1/sparklyr_init.log"], "text/plain")
}

func TestUploadFile_MissingFile(t *testing.T) {
	t.Parallel()
	c := testClient(t, newFakeStore())

	err := c.UploadFile(context.Background(), "b", "k", filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	assert.False(t, isNotFoundError(nil))
	assert.True(t, isNotFoundError(&s3types.NotFound{}))
	assert.True(t, isNotFoundError(&s3types.NoSuchBucket{}))
	assert.True(t, isNotFoundError(&smithy.GenericAPIError{Code: "404"}))
	assert.False(t, isNotFoundError(errors.New("boom")))

	assert.False(t, isBucketAlreadyOwnedByYou(nil))
	assert.True(t, isBucketAlreadyOwnedByYou(&s3types.BucketAlreadyOwnedByYou{}))
	assert.True(t, isBucketAlreadyOwnedByYou(&smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}))
	assert.False(t, isBucketAlreadyOwnedByYou(&smithy.GenericAPIError{Code: "AccessDenied"}))
}
