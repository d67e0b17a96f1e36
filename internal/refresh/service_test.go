package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrinetips/shrinetips-go/internal/fetch"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

const kbV102 = `[102, ["Gloom Shrine", "Life", "+# to maximum Life"]]`

func writeKB(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestService_ReloadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrines.json")
	writeKB(t, path, kbV102)

	var (
		store    catalogue.Store
		reloaded int
		updates  []int
	)
	svc := New(&FileSource{Path: path}, &store,
		WithClientVersion(100),
		OnReload(func(*catalogue.Catalogue) { reloaded++ }),
		OnUpdateAvailable(func(v int) { updates = append(updates, v) }),
	)

	cat, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, cat, store.Load())
	assert.Equal(t, 102, store.Load().Version())
	assert.Equal(t, 1, reloaded)
	assert.Equal(t, []int{102}, updates)

	// Same version again: no second announcement.
	_, err = svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded)
	assert.Equal(t, []int{102}, updates)
}

func TestService_NoUpdateForCurrentRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrines.json")
	writeKB(t, path, kbV102)

	called := false
	svc := New(&FileSource{Path: path}, &catalogue.Store{},
		WithClientVersion(102),
		OnUpdateAvailable(func(int) { called = true }),
	)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
}

func TestService_FailedReloadKeepsCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrines.json")
	writeKB(t, path, kbV102)

	var (
		store catalogue.Store
		errs  []error
	)
	svc := New(&FileSource{Path: path}, &store, OnError(func(err error) { errs = append(errs, err) }))

	good, err := svc.Reload(context.Background())
	require.NoError(t, err)

	for _, bad := range []string{`{"not": "an array"}`, `[1, ["broken"`, ``} {
		writeKB(t, path, bad)
		_, err := svc.Reload(context.Background())
		assert.Error(t, err, "payload %q", bad)
		assert.Same(t, good, store.Load())
	}
	assert.Len(t, errs, 3)
}

func TestService_ReloadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(kbV102))
	}))
	defer srv.Close()

	var store catalogue.Store
	svc := New(&HTTPSource{URL: srv.URL + "/shrines.js", Client: fetch.New()}, &store)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 102, store.Load().Version())
	assert.Equal(t, 1, store.Load().Len())
}

func TestService_ReloadFromHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	svc := New(&HTTPSource{URL: srv.URL}, &catalogue.Store{})
	_, err := svc.Reload(context.Background())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestService_StartInvalidSchedule(t *testing.T) {
	svc := New(&HTTPSource{URL: "http://127.0.0.1:1"}, &catalogue.Store{})
	err := svc.Start(context.Background(), "every now and then")
	assert.Error(t, err)
	svc.Stop()
}

func TestService_StartTwice(t *testing.T) {
	svc := New(&HTTPSource{URL: "http://127.0.0.1:1"}, &catalogue.Store{})
	require.NoError(t, svc.Start(context.Background(), DefaultSchedule))
	defer svc.Stop()

	assert.ErrorIs(t, svc.Start(context.Background(), DefaultSchedule), ErrAlreadyStarted)
}

func TestService_ReloadsOnFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrines.json")
	writeKB(t, path, kbV102)

	var store catalogue.Store
	versions := make(chan int, 8)
	svc := New(&FileSource{Path: path}, &store,
		OnReload(func(c *catalogue.Catalogue) { versions <- c.Version() }),
	)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	<-versions

	require.NoError(t, svc.Start(context.Background(), ""))
	defer svc.Stop()

	writeKB(t, path, `[103, ["Gloom Shrine", "Life", "+# to maximum Life"]]`)

	select {
	case v := <-versions:
		assert.Equal(t, 103, v)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for file-triggered reload")
	}
	assert.Equal(t, 103, store.Load().Version())
}

func TestService_StopWithoutStart(t *testing.T) {
	svc := New(&FileSource{Path: "unused"}, &catalogue.Store{})
	svc.Stop()
	svc.Stop()
}
