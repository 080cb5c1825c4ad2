package fetching

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/test/test_internals"
)

func makeFetcher(t *testing.T) *Fetcher {
	c := test_internals.MakeTestConfig(t)
	settings := SettingsFromConfig(*c)
	settings.RetryBackoff = time.Millisecond
	return New(settings, nil)
}

func TestFetchRejectsBadSchemes(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)
	srv := test_internals.NewFlakyServer(0, "text/plain", []byte("hello"))
	defer srv.Close()

	for _, u := range []string{
		"",
		"   ",
		strings.TrimPrefix(srv.URL, "http://"),
		"ftp" + strings.TrimPrefix(srv.URL, "http"),
		"file:///etc/passwd",
	} {
		_, err := f.Fetch(ctx, u, Options{MaxRetries: 3})
		assert.ErrorIs(t, err, common.ErrInvalidInput, u)
		assert.False(t, common.IsTransportError(err), u)
	}
	assert.Equal(t, 0, srv.RequestCount())
}

func TestFetchTrimsUrl(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)
	srv := test_internals.NewFlakyServer(0, "text/plain", []byte("hello"))
	defer srv.Close()

	res, err := f.Fetch(ctx, "  "+srv.URL+"/a.txt\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), res.Data)
	assert.Equal(t, "a.txt", res.Filename)
}

func TestFetchRetryIsTransparent(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)
	body := test_internals.MakeTestImageBytes(t, 8, 8)

	immediate := test_internals.NewFlakyServer(0, "image/png", body)
	defer immediate.Close()
	flaky := test_internals.NewFlakyServer(2, "image/png", body)
	defer flaky.Close()

	expected, err := f.Fetch(ctx, immediate.URL, Options{Kind: common.KindImage, MaxRetries: 2})
	require.NoError(t, err)
	actual, err := f.Fetch(ctx, flaky.URL, Options{Kind: common.KindImage, MaxRetries: 2})
	require.NoError(t, err)

	assert.Equal(t, expected.Data, actual.Data)
	assert.Equal(t, expected.ContentTypeHint, actual.ContentTypeHint)
	assert.Equal(t, expected.SizeBytes, actual.SizeBytes)
	assert.Equal(t, 1, immediate.RequestCount())
	assert.Equal(t, 3, flaky.RequestCount())
}

func TestFetchSurfacesFinalError(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)

	single := test_internals.NewFlakyServer(100, "text/plain", nil)
	defer single.Close()
	exhausted := test_internals.NewFlakyServer(100, "text/plain", nil)
	defer exhausted.Close()

	_, singleErr := f.Fetch(ctx, single.URL, Options{MaxRetries: 0, Timeout: 5 * time.Second})
	_, exhaustedErr := f.Fetch(ctx, exhausted.URL, Options{MaxRetries: 2, Timeout: 5 * time.Second})
	require.Error(t, singleErr)
	require.Error(t, exhaustedErr)

	var singleTe, exhaustedTe *common.TransportError
	require.True(t, errors.As(singleErr, &singleTe))
	require.True(t, errors.As(exhaustedErr, &exhaustedTe))
	assert.Equal(t, singleTe.Err, exhaustedTe.Err)
	assert.Equal(t, singleTe.Err.Error(), exhaustedTe.Err.Error())
	assert.Contains(t, exhaustedErr.Error(), exhausted.URL)
	assert.Contains(t, exhaustedErr.Error(), "5s")

	var se *StatusError
	require.True(t, errors.As(exhaustedErr, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)

	assert.Equal(t, 1, single.RequestCount())
	assert.Equal(t, 3, exhausted.RequestCount())
}

func TestFetchSendsHeaders(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)

	var seen http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := f.Fetch(ctx, srv.URL, Options{Accept: "audio/*"})
	require.NoError(t, err)
	assert.Equal(t, "identity", seen.Get("Accept-Encoding"))
	assert.Equal(t, "bytes=0-", seen.Get("Range"))
	assert.Equal(t, "audio/*", seen.Get("Accept"))
	assert.Contains(t, seen.Get("User-Agent"), "Mozilla/5.0")
}

func TestFetchTimeout(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	_, err := f.Fetch(ctx, srv.URL, Options{Timeout: 50 * time.Millisecond})
	assert.True(t, common.IsTransportError(err))
}

func TestFetchToFilePersistAvoidsCollisions(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)
	dir := t.TempDir()

	srv := test_internals.NewFlakyServer(0, "video/mp4", []byte("not really a video"))
	defer srv.Close()

	opts := FileOptions{Persist: true, Directory: dir, BaseName: "clip", Extension: ".mp4"}
	first, err := f.FetchToFile(ctx, srv.URL+"/clip.mp4", opts)
	require.NoError(t, err)
	second, err := f.FetchToFile(ctx, srv.URL+"/clip.mp4", opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "clip.mp4"), first.FilePath)
	assert.Equal(t, filepath.Join(dir, "clip_1.mp4"), second.FilePath)
	assert.True(t, first.Persisted())

	b, err := os.ReadFile(second.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "not really a video", string(b))

	// Persisted files survive Discard
	first.Discard()
	_, err = os.Stat(first.FilePath)
	assert.NoError(t, err)
}

func TestFetchToFileTemporary(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)
	payload := []byte(strings.Repeat("0123456789", 5000))

	srv := test_internals.NewFlakyServer(1, "video/webm", payload)
	defer srv.Close()

	res, err := f.FetchToFile(ctx, srv.URL, FileOptions{Options: Options{MaxRetries: 1}, Extension: ".webm"})
	require.NoError(t, err)
	assert.False(t, res.InMemory())
	assert.False(t, res.Persisted())
	assert.Equal(t, int64(len(payload)), res.SizeBytes)
	assert.Equal(t, ".webm", filepath.Ext(res.FilePath))

	b, err := res.Bytes()
	require.NoError(t, err)
	assert.Equal(t, payload, b)

	res.Discard()
	_, err = os.Stat(res.FilePath)
	assert.True(t, os.IsNotExist(err))
}

func TestFetchToFileRemovesPartialFiles(t *testing.T) {
	c := test_internals.MakeTestConfig(t)
	settings := SettingsFromConfig(*c)
	settings.MaxSizeBytes = 10
	f := New(settings, nil)
	ctx := test_internals.MakeTestContext(t)
	dir := t.TempDir()

	srv := test_internals.NewFlakyServer(0, "video/mp4", []byte(strings.Repeat("x", 100)))
	defer srv.Close()

	_, err := f.FetchToFile(ctx, srv.URL, FileOptions{Persist: true, Directory: dir, BaseName: "big", Extension: ".mp4"})
	assert.ErrorIs(t, err, common.ErrMediaTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchToFileRejectsBadFilename(t *testing.T) {
	f := makeFetcher(t)
	ctx := test_internals.MakeTestContext(t)

	_, err := f.FetchToFile(ctx, "https://example.org/a.mp4", FileOptions{Persist: true, Directory: t.TempDir(), BaseName: "a/b", Extension: ".mp4"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

type countingScheduler struct {
	scheduled int
}

func (s *countingScheduler) Schedule(task func()) error {
	s.scheduled++
	go task()
	return nil
}

func TestStartUsesScheduler(t *testing.T) {
	c := test_internals.MakeTestConfig(t)
	queue := &countingScheduler{}
	f := New(SettingsFromConfig(*c), queue)
	ctx := test_internals.MakeTestContext(t)

	srv := test_internals.NewFlakyServer(0, "text/plain", []byte("queued"))
	defer srv.Close()

	task := f.Start(ctx, Job{Url: srv.URL})
	<-task.Done()
	res, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "queued", string(res.Data))
	assert.Equal(t, 1, queue.scheduled)
}
