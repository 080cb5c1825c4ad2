package uploading

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/test/test_internals"
)

type storedObject struct {
	data        []byte
	contentType string
}

type memoryStore struct {
	lock    sync.Mutex
	objects map[string]storedObject
	failOn  map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string]storedObject), failOn: make(map[string]error)}
}

func (s *memoryStore) PutObject(ctx rcontext.RequestContext, key string, r io.Reader, size int64, contentType string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err, ok := s.failOn[key]; ok {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	s.objects[key] = storedObject{data: b, contentType: contentType}
	return nil
}

func setup(t *testing.T) (rcontext.RequestContext, *Dispatcher, *memoryStore, string) {
	ctx := test_internals.MakeTestContext(t)
	dir := t.TempDir()
	store := newMemoryStore()
	d := NewDispatcher(dir, false, func(creds Credentials, bucket string, endpoint string, secure bool) (ObjectStore, error) {
		return store, nil
	})
	return ctx, d, store, dir
}

func baseRequest(manifest Manifest) UploadRequest {
	return UploadRequest{
		Credentials: Credentials{AccessKeyId: "id", AccessKeySecret: "secret", SecurityToken: "token"},
		Bucket:      "bucket",
		Endpoint:    "oss-cn-hangzhou.aliyuncs.com",
		TaskId:      "task1",
		Manifest:    manifest,
	}
}

func TestUploadPartial(t *testing.T) {
	ctx, d, store, dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.png"), []byte("12345"), 0644))

	report := d.Upload(ctx, baseRequest(Manifest{
		"images": {{Filename: "missing.png"}, {Filename: "present.png"}},
	}))

	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 1, report.UploadedCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, int64(5), report.TotalSize)
	assert.Equal(t, "File not found", report.Failed[0].Reason)
	assert.Equal(t, "missing.png", report.Failed[0].Filename)

	assert.Equal(t, UploadedFile{Filename: "present.png", OssPath: "outputs/task1/present.png", Size: 5, ContentType: "image/png"}, report.Uploaded[0])
	assert.Equal(t, "image/png", store.objects["outputs/task1/present.png"].contentType)

	// not deleted unless asked
	assert.FileExists(t, filepath.Join(dir, "present.png"))
}

func TestUploadAllFailedIsPartial(t *testing.T) {
	ctx, d, _, _ := setup(t)
	report := d.Upload(ctx, baseRequest(Manifest{"videos": {{Filename: "a.mp4"}, {Filename: "b.mp4"}}}))
	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 0, report.UploadedCount)
	assert.Equal(t, 2, report.FailedCount)
}

func TestUploadEmptyManifestIsSuccess(t *testing.T) {
	ctx, d, _, _ := setup(t)
	report := d.Upload(ctx, baseRequest(Manifest{}))
	assert.Equal(t, StatusSuccess, report.Status)
	assert.Empty(t, report.Uploaded)
	assert.Empty(t, report.Failed)
}

func TestUploadSubfolderDeleteAndOrder(t *testing.T) {
	ctx, d, store, dir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "song.mp3"), []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.webm"), []byte("abcd"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.bin"), []byte("a"), 0644))

	req := baseRequest(Manifest{
		"videos": {{Filename: "clip.webm"}},
		"audios": {{Filename: "song.mp3", Subfolder: "sub"}, {Filename: ""}},
		"other":  {{Filename: "notes.bin"}},
	})
	req.DeleteAfterUpload = true
	report := d.Upload(ctx, req)

	require.Equal(t, StatusSuccess, report.Status)
	require.Len(t, report.Uploaded, 3)
	assert.Equal(t, "song.mp3", report.Uploaded[0].Filename)
	assert.Equal(t, "notes.bin", report.Uploaded[1].Filename)
	assert.Equal(t, "clip.webm", report.Uploaded[2].Filename)
	assert.Equal(t, "audio/mpeg", report.Uploaded[0].ContentType)
	assert.Equal(t, "application/octet-stream", report.Uploaded[1].ContentType)
	assert.Equal(t, int64(8), report.TotalSize)

	assert.NoFileExists(t, filepath.Join(dir, "sub", "song.mp3"))
	assert.NoFileExists(t, filepath.Join(dir, "clip.webm"))
	assert.Len(t, store.objects, 3)
}

func TestUploadStoreFailureIsRecorded(t *testing.T) {
	ctx, d, store, dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	store.failOn["outputs/task1/a.txt"] = errors.New("access denied")

	req := baseRequest(Manifest{"files": {{Filename: "a.txt"}}})
	req.DeleteAfterUpload = true
	report := d.Upload(ctx, req)

	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, "access denied", report.Failed[0].Reason)
	// failed uploads are never deleted
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
}

func TestUploadRejectsEscapingPaths(t *testing.T) {
	ctx, d, _, _ := setup(t)
	report := d.Upload(ctx, baseRequest(Manifest{"files": {{Filename: "passwd", Subfolder: "../../etc"}}}))
	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 1, report.FailedCount)
}

func TestUploadRequestErrors(t *testing.T) {
	ctx, d, _, _ := setup(t)

	req := baseRequest(Manifest{})
	req.Bucket = ""
	report := d.Upload(ctx, req)
	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Message, "bucket")

	b, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"`+report.Message+`"}`, string(b))

	failing := NewDispatcher(t.TempDir(), false, func(creds Credentials, bucket string, endpoint string, secure bool) (ObjectStore, error) {
		return nil, errors.New("bad endpoint")
	})
	report = failing.Upload(ctx, baseRequest(Manifest{}))
	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, "bad endpoint", report.Message)
}

func TestUploadAttachments(t *testing.T) {
	ctx, d, store, dir := setup(t)

	img := normalizing.ImageToTensor(imageFromBytes(t, test_internals.MakeTestImageBytes(t, 6, 4)))
	audio := normalizing.PlanesToAudio([][]float32{{0, 0.5, -0.5, 0.25}}, 8000)
	videoPath := filepath.Join(t.TempDir(), "outside.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

	req := baseRequest(Manifest{})
	req.Attachments = Attachments{
		Images: []*m.Image{img},
		Audios: []*m.Audio{audio},
		Videos: []*m.Video{{FilePath: videoPath, SizeBytes: 5}},
	}
	report := d.Upload(ctx, req)

	require.Equal(t, StatusSuccess, report.Status, report.String())
	require.Len(t, report.Uploaded, 3)
	assert.Equal(t, "task1_audio_0.wav", report.Uploaded[0].Filename)
	assert.Equal(t, "task1_image_0_00000.png", report.Uploaded[1].Filename)
	assert.Equal(t, "outside.mp4", report.Uploaded[2].Filename)

	png := store.objects["outputs/task1/task1_image_0_00000.png"]
	assert.Equal(t, "image/png", png.contentType)
	decoded, err := normalizing.DecodeImage(ctx, png.data, png.contentType)
	require.NoError(t, err)
	assert.Equal(t, 6, decoded.Bounds().Dx())

	samples, err := normalizing.DecodeAudio(ctx, store.objects["outputs/task1/task1_audio_0.wav"].data, "audio/wav", "x.wav")
	require.NoError(t, err)
	assert.Equal(t, 8000, samples.SampleRate)
	assert.Len(t, samples.Planes, 1)
	assert.Equal(t, 4, samples.Frames())

	assert.FileExists(t, filepath.Join(dir, "outside.mp4"))
}
