package nodes

import (
	"encoding/json"
	"io"
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
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/test/test_internals"
	"github.com/t2bot/url-media-nodes/uploading"
)

type nopStore struct {
	keys      []string
	deadlines []time.Duration
}

func (s *nopStore) PutObject(ctx rcontext.RequestContext, key string, r io.Reader, size int64, contentType string) error {
	s.keys = append(s.keys, key)
	if d, ok := ctx.Deadline(); ok {
		s.deadlines = append(s.deadlines, time.Until(d))
	} else {
		s.deadlines = append(s.deadlines, 0)
	}
	_, err := io.Copy(io.Discard, r)
	return err
}

func makeRegistry(t *testing.T) (rcontext.RequestContext, *Registry, *nopStore) {
	c := test_internals.MakeTestConfig(t)
	settings := fetching.SettingsFromConfig(*c)
	settings.RetryBackoff = time.Millisecond
	store := &nopStore{}
	r, err := NewDefaultRegistry(Deps{
		Fetcher: fetching.New(settings, nil),
		Dispatcher: uploading.NewDispatcherFromConfig(*c, func(creds uploading.Credentials, bucket string, endpoint string, secure bool) (uploading.ObjectStore, error) {
			return store, nil
		}),
	})
	require.NoError(t, err)
	return rcontext.Initial(), r, store
}

func serve(t *testing.T, contentType string, body []byte) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadImageFromURL(t *testing.T) {
	ctx, r, _ := makeRegistry(t)
	srv := serve(t, "image/png", test_internals.MakeTestImageBytes(t, 64, 32))

	out, err := r.Execute(ctx, "LoadImageFromURL", map[string]interface{}{"image_url": srv.URL + "/a.png", "width": 16.0})
	require.NoError(t, err)
	require.Len(t, out, 2)
	img := out[0].(*m.Image)
	assert.Equal(t, []int{1, 8, 16, 3}, img.Tensor.Shape)
	assert.Equal(t, []int{1, 8, 16}, out[1].(*m.Tensor).Shape)

	_, err = r.Execute(ctx, "LoadImageFromURL", map[string]interface{}{"image_url": "example.org/a.png"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = r.Execute(ctx, "LoadImageFromURL", map[string]interface{}{"image_url": srv.URL, "width": 8193.0})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLoadAudioFromURL(t *testing.T) {
	ctx, r, _ := makeRegistry(t)
	wav := test_internals.MakeTestWav(t, 8000, 2, 800, func(c int, i int) float64 { return 0.1 })
	srv := serve(t, "audio/wav", wav)

	out, err := r.Execute(ctx, "LoadAudioFromURL", map[string]interface{}{"audio_url": " " + srv.URL + "/a.wav "})
	require.NoError(t, err)
	audio := out[0].(*m.Audio)
	assert.Equal(t, 16000, audio.SampleRate)
	assert.Equal(t, []int{2, 1600}, audio.Waveform.Shape)

	_, err = r.Execute(ctx, "LoadAudioFromURL", map[string]interface{}{"audio_url": "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestURLResourceLoader(t *testing.T) {
	ctx, r, _ := makeRegistry(t)
	img := serve(t, "image/png", test_internals.MakeTestImageBytes(t, 8, 4))
	wav := serve(t, "application/octet-stream", test_internals.MakeTestWav(t, 8000, 2, 80, func(c int, i int) float64 { return 0.2 }))
	text := serve(t, "text/html", []byte("<html></html>"))

	out, err := r.Execute(ctx, "URLResourceLoader", map[string]interface{}{"url": img.URL})
	require.NoError(t, err)
	assert.NotNil(t, out[0])
	assert.Nil(t, out[1])
	assert.Contains(t, out[2], "ok: image loaded")
	assert.Contains(t, out[2], "8x4")

	out, err = r.Execute(ctx, "URLResourceLoader", map[string]interface{}{"url": wav.URL + "/sound.wav"})
	require.NoError(t, err)
	audio := out[1].(*m.Audio)
	assert.Equal(t, 1, audio.Channels())
	assert.Equal(t, 8000, audio.SampleRate)

	out, err = r.Execute(ctx, "URLResourceLoader", map[string]interface{}{"url": wav.URL + "/sound.wav", "audio_output_format": "tuple"})
	require.NoError(t, err)
	tuple := out[1].(*AudioTuple)
	assert.Equal(t, []int{1, 80}, tuple.Waveform.Shape)

	out, err = r.Execute(ctx, "URLResourceLoader", map[string]interface{}{"url": text.URL})
	require.NoError(t, err)
	assert.Nil(t, out[0])
	assert.Nil(t, out[1])
	assert.Contains(t, out[2], "unsupported content type")

	out, err = r.Execute(ctx, "URLResourceLoader", map[string]interface{}{"url": "nope"})
	require.NoError(t, err)
	assert.Contains(t, out[2], "error: request failed")
}

func TestComfyVideoURLLoader(t *testing.T) {
	ctx, r, _ := makeRegistry(t)
	srv := serve(t, "video/webm", []byte("webm bytes"))

	out, err := r.Execute(ctx, "ComfyVideoURLLoader", map[string]interface{}{
		"video_url":            srv.URL + "/movie.webm?x=1",
		"save_to_input_folder": true,
		"filename":             "movie",
	})
	require.NoError(t, err)
	video := out[0].(*m.Video)
	assert.Equal(t, filepath.Join(ctx.Config.Paths.InputDirectory, "movie.webm"), video.FilePath)
	assert.True(t, video.Persisted)

	out, err = r.Execute(ctx, "ComfyVideoURLLoader", map[string]interface{}{
		"video_url":            srv.URL + "/movie.webm",
		"save_to_input_folder": true,
		"filename":             "movie",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ctx.Config.Paths.InputDirectory, "movie_1.webm"), out[0].(*m.Video).FilePath)

	out, err = r.Execute(ctx, "ComfyVideoURLLoader", map[string]interface{}{"video_url": srv.URL + "/stream"})
	require.NoError(t, err)
	tmp := out[0].(*m.Video)
	assert.False(t, tmp.Persisted)
	assert.Equal(t, ".mp4", filepath.Ext(tmp.FilePath))
	assert.FileExists(t, tmp.FilePath)

	_, err = r.Execute(ctx, "ComfyVideoURLLoader", map[string]interface{}{
		"video_url":            srv.URL,
		"save_to_input_folder": true,
		"filename":             "a:b",
	})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestOSSUpload(t *testing.T) {
	ctx, r, store := makeRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(ctx.Config.Paths.OutputDirectory, "out.png"), []byte("png"), 0644))

	out, err := r.Execute(ctx, "OSS_Upload", map[string]interface{}{
		"access_key_id":     "id",
		"access_key_secret": "secret",
		"security_token":    "token",
		"bucket_name":       "bucket",
		"endpoint":          "oss.example.org",
		"task_id":           "t1",
		"file_list":         `{"images": [{"filename": "out.png"}, {"filename": "gone.png"}]}`,
	})
	require.NoError(t, err)

	report := make(map[string]interface{})
	require.NoError(t, json.Unmarshal([]byte(out[0].(string)), &report))
	assert.Equal(t, "partial", report["status"])
	assert.Equal(t, 1.0, report["uploaded_count"])
	assert.Equal(t, 1.0, report["failed_count"])
	assert.Equal(t, []string{"outputs/t1/out.png"}, store.keys)
	// deleted by default
	assert.NoFileExists(t, filepath.Join(ctx.Config.Paths.OutputDirectory, "out.png"))

	out, err = r.Execute(ctx, "OSS_Upload", map[string]interface{}{"file_list": "{"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out[0].(string)), &report))
	assert.Equal(t, "error", report["status"])
}

func TestOSSUploadTimeoutDefault(t *testing.T) {
	ctx, r, store := makeRegistry(t)
	ctx.Config.Uploads.TimeoutSeconds = 42
	out := ctx.Config.Paths.OutputDirectory
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.png"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "b.png"), []byte("b"), 0644))

	raw := map[string]interface{}{
		"access_key_id":       "id",
		"access_key_secret":   "secret",
		"bucket_name":         "bucket",
		"endpoint":            "oss.example.org",
		"task_id":             "t1",
		"delete_after_upload": false,
	}

	raw["file_list"] = `{"images": [{"filename": "a.png"}]}`
	_, err := r.Execute(ctx, "OSS_Upload", raw)
	require.NoError(t, err)

	raw["file_list"] = `{"images": [{"filename": "b.png"}]}`
	raw["timeout_seconds"] = 0.0
	_, err = r.Execute(ctx, "OSS_Upload", raw)
	require.NoError(t, err)

	require.Len(t, store.deadlines, 2)
	assert.True(t, store.deadlines[0] > 41*time.Second && store.deadlines[0] <= 42*time.Second, store.deadlines[0].String())
	assert.Equal(t, time.Duration(0), store.deadlines[1])
}

func TestLoaderAcceptHeaders(t *testing.T) {
	ctx, r, _ := makeRegistry(t)
	accepts := make(map[string]string)
	png := test_internals.MakeTestImageBytes(t, 4, 4)
	wav := test_internals.MakeTestWav(t, 8000, 1, 80, func(c int, i int) float64 { return 0.1 })
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accepts[r.URL.Path] = r.Header.Get("Accept")
		if r.URL.Path == "/a.wav" {
			_, _ = w.Write(wav)
		} else {
			_, _ = w.Write(png)
		}
	}))
	t.Cleanup(srv.Close)

	_, err := r.Execute(ctx, "LoadImageFromURL", map[string]interface{}{"image_url": srv.URL + "/a.png"})
	require.NoError(t, err)
	_, err = r.Execute(ctx, "LoadAudioFromURL", map[string]interface{}{"audio_url": srv.URL + "/a.wav"})
	require.NoError(t, err)

	for _, ct := range []string{"image/webp", "image/heic", "image/jpeg", "image/png"} {
		assert.Contains(t, accepts["/a.png"], ct)
	}
	assert.True(t, strings.HasSuffix(accepts["/a.png"], ",image/*;q=0.9,*/*;q=0.8"), accepts["/a.png"])
	for _, ct := range []string{"audio/flac", "audio/ogg", "audio/wav", "audio/mpeg"} {
		assert.Contains(t, accepts["/a.wav"], ct)
	}
	assert.NotContains(t, accepts["/a.wav"], "image/")
}
