package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/platform/shell"
)

func newMetadataServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Attribute(t *testing.T) {
	t.Parallel()

	srv := newMetadataServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Metadata-Flavor") != "Google" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/computeMetadata/v1/instance/attributes/dataproc-role" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("Master\n"))
	})

	role, err := NewClient(srv.URL).Attribute(context.Background(), "dataproc-role")
	require.NoError(t, err)
	assert.Equal(t, "Master", role)
}

func TestClient_MissingAttributeIsEmpty(t *testing.T) {
	t.Parallel()

	srv := newMetadataServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	role, err := NewClient(srv.URL).Attribute(context.Background(), "dataproc-role")
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestClient_ServerErrorFailsImmediately(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32

	srv := newMetadataServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewClient(srv.URL).Attribute(context.Background(), "dataproc-role")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load(), "no retry unless configured")
}

func TestClient_RetriesWhenConfigured(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32

	srv := newMetadataServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("Worker"))
	})

	role, err := NewClient(srv.URL, WithRetries(3, time.Millisecond)).Attribute(context.Background(), "dataproc-role")
	require.NoError(t, err)
	assert.Equal(t, "Worker", role)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32

	srv := newMetadataServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewClient(srv.URL, WithRetries(5, time.Millisecond)).Attribute(context.Background(), "dataproc-role")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Attribute(context.Background(), "dataproc-role")
	assert.Error(t, err)
}

type fakeRunner struct {
	out []byte
	err error
	got shell.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd shell.Command) ([]byte, error) {
	f.got = cmd
	return f.out, f.err
}

func TestCommandSource_Attribute(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{out: []byte("Worker\n")}

	role, err := NewCommandSource(runner, "/usr/share/google/get_metadata_value").Attribute(context.Background(), "dataproc-role")
	require.NoError(t, err)
	assert.Equal(t, "Worker", role)
	assert.Equal(t, "/usr/share/google/get_metadata_value", runner.got.Name)
	assert.Equal(t, []string{"attributes/dataproc-role"}, runner.got.Args)
}

func TestCommandSource_Error(t *testing.T) {
	t.Parallel()
	cause := errors.New("exit status 1")

	_, err := NewCommandSource(&fakeRunner{err: cause}, "helper").Attribute(context.Background(), "dataproc-role")
	assert.ErrorIs(t, err, cause)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	v, err := Static("Master").Attribute(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Master", v)
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	src, err := NewSource(config.Default().Metadata, &fakeRunner{})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, src)

	cfg := config.Default().Metadata
	cfg.Source = config.MetadataSourceCommand
	src, err = NewSource(cfg, &fakeRunner{})
	require.NoError(t, err)
	assert.IsType(t, &CommandSource{}, src)

	cfg.Source = "dns"
	_, err = NewSource(cfg, &fakeRunner{})
	assert.Error(t, err)
}
