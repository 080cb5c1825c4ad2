package uploading

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/metrics"
	"github.com/t2bot/url-media-nodes/util"
)

type UploadRequest struct {
	Credentials       Credentials
	Bucket            string
	Endpoint          string
	TaskId            string
	Manifest          Manifest
	Attachments       Attachments
	DeleteAfterUpload bool
	Timeout           time.Duration // per file, 0 for none
}

type Dispatcher struct {
	outputDir string
	secure    bool
	newStore  StoreFactory
}

// NewDispatcher uploads files found under outputDir. A nil factory uses NewS3Store.
func NewDispatcher(outputDir string, secure bool, factory StoreFactory) *Dispatcher {
	if factory == nil {
		factory = NewS3Store
	}
	return &Dispatcher{outputDir: outputDir, secure: secure, newStore: factory}
}

func NewDispatcherFromConfig(c config.NodesConfig, factory StoreFactory) *Dispatcher {
	return NewDispatcher(c.Paths.OutputDirectory, c.Uploads.UseSsl, factory)
}

func RemoteKey(taskId string, filename string) string {
	return fmt.Sprintf("outputs/%s/%s", taskId, filename)
}

func validateRequest(req UploadRequest) error {
	if req.Credentials.AccessKeyId == "" || req.Credentials.AccessKeySecret == "" {
		return common.InvalidInput("access key id and secret are required")
	}
	if strings.TrimSpace(req.Bucket) == "" {
		return common.InvalidInput("bucket name is required")
	}
	if strings.TrimSpace(req.Endpoint) == "" {
		return common.InvalidInput("endpoint is required")
	}
	if strings.TrimSpace(req.TaskId) == "" {
		return common.InvalidInput("task id is required")
	}
	return nil
}

// Upload sends every manifest entry to the object store. Per-file problems are recorded in the report;
// only request-level problems produce an error report.
func (d *Dispatcher) Upload(ctx rcontext.RequestContext, req UploadRequest) *Report {
	if err := validateRequest(req); err != nil {
		metrics.Uploads.With(prometheus.Labels{"result": StatusError}).Inc()
		return ErrorReport(err.Error())
	}
	ctx = ctx.LogWithFields(logrus.Fields{"taskId": req.TaskId, "bucket": req.Bucket})

	store, err := d.newStore(req.Credentials, req.Bucket, req.Endpoint, d.secure)
	if err != nil {
		ctx.Log.Error("Error creating object store client: ", err)
		metrics.Uploads.With(prometheus.Labels{"result": StatusError}).Inc()
		return ErrorReport(err.Error())
	}

	report := newReport(req.TaskId)
	manifest := make(Manifest)
	for label, entries := range req.Manifest {
		manifest.Add(label, entries...)
	}
	d.materialize(ctx, req, manifest, report)

	for _, label := range manifest.Labels() {
		for _, entry := range manifest[label] {
			if entry.Filename == "" {
				continue
			}
			uploaded, err := d.uploadOne(ctx, store, req, entry)
			if err != nil {
				ctx.Log.Warnf("Failed to upload %s: %s", entry.Filename, err.Error())
				metrics.Uploads.With(prometheus.Labels{"result": "failed"}).Inc()
				report.failed(entry.Filename, err.Error())
				continue
			}
			metrics.Uploads.With(prometheus.Labels{"result": "uploaded"}).Inc()
			report.succeeded(*uploaded)
		}
	}

	report.finish()
	ctx.Log.Infof("Upload finished: %s (%d uploaded, %d failed, %s)", report.Status, report.UploadedCount, report.FailedCount, humanize.Bytes(uint64(report.TotalSize)))
	return report
}

func (d *Dispatcher) localPath(entry ManifestEntry) (string, error) {
	p := filepath.Join(d.outputDir, entry.Subfolder, entry.Filename)
	rel, err := filepath.Rel(d.outputDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", common.InvalidInput("path escapes the output directory: %s", filepath.Join(entry.Subfolder, entry.Filename))
	}
	return p, nil
}

func (d *Dispatcher) uploadOne(ctx rcontext.RequestContext, store ObjectStore, req UploadRequest, entry ManifestEntry) (*UploadedFile, error) {
	localPath, err := d.localPath(entry)
	if err != nil {
		return nil, &common.StorageError{Filename: entry.Filename, Err: err}
	}
	info, err := os.Stat(localPath)
	if err != nil || info.IsDir() {
		return nil, &common.StorageError{Filename: entry.Filename, Err: common.ErrFileNotFound}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, &common.StorageError{Filename: entry.Filename, Err: err}
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	key := RemoteKey(req.TaskId, entry.Filename)
	contentType := util.ContentTypeForFilename(entry.Filename)

	putCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		var c context.Context
		c, cancel = context.WithTimeout(ctx.Context, req.Timeout)
		defer cancel()
		putCtx = ctx.WithContext(c)
	}
	ctx.Log.Debugf("Uploading %s as %s (%s)", localPath, key, contentType)
	if err = store.PutObject(putCtx, key, f, info.Size(), contentType); err != nil {
		return nil, &common.StorageError{Filename: entry.Filename, Err: err}
	}

	if req.DeleteAfterUpload {
		_ = f.Close()
		util.TryRemove(localPath)
	}

	return &UploadedFile{
		Filename:    entry.Filename,
		OssPath:     key,
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// materialize writes in-memory attachments into the output directory and lists them in manifest.
func (d *Dispatcher) materialize(ctx rcontext.RequestContext, req UploadRequest, manifest Manifest, report *Report) {
	if req.Attachments.Empty() {
		return
	}
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		report.failed("attachments", err.Error())
		return
	}

	for n, img := range req.Attachments.Images {
		names, err := SaveImage(d.outputDir, fmt.Sprintf("%s_image_%d", req.TaskId, n), img)
		for _, name := range names {
			manifest.Add("images", ManifestEntry{Filename: name})
		}
		if err != nil {
			ctx.Log.Warn("Error saving image attachment: ", err)
			report.failed(fmt.Sprintf("image %d", n), err.Error())
		}
	}
	for n, audio := range req.Attachments.Audios {
		name, err := SaveAudio(d.outputDir, fmt.Sprintf("%s_audio_%d", req.TaskId, n), audio)
		if err != nil {
			ctx.Log.Warn("Error saving audio attachment: ", err)
			report.failed(fmt.Sprintf("audio %d", n), err.Error())
			continue
		}
		manifest.Add("audios", ManifestEntry{Filename: name})
	}
	for n, video := range req.Attachments.Videos {
		entry, err := PlaceVideo(d.outputDir, video)
		if err != nil {
			ctx.Log.Warn("Error placing video attachment: ", err)
			report.failed(fmt.Sprintf("video %d", n), err.Error())
			continue
		}
		manifest.Add("videos", entry)
	}
}
