package nodes

import (
	"time"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/uploading"
)

// OSSUpload pushes task outputs to the object store. It always succeeds and reports per-file results as
// a JSON string.
type OSSUpload struct {
	dispatcher *uploading.Dispatcher
}

func (n *OSSUpload) Schema() Schema {
	return Schema{
		Id:          "OSS_Upload",
		DisplayName: "OSS Upload",
		Category:    "storage/oss",
		Inputs: []Field{
			{Name: "access_key_id", Type: TypeString, Default: ""},
			{Name: "access_key_secret", Type: TypeString, Default: ""},
			{Name: "security_token", Type: TypeString, Default: ""},
			{Name: "bucket_name", Type: TypeString, Default: ""},
			{Name: "endpoint", Type: TypeString, Default: ""},
			{Name: "task_id", Type: TypeString, Default: ""},
			{Name: "file_list", Type: TypeString, Default: "", Tooltip: `JSON: {"images": [{"filename": "...", "subfolder": "..."}], ...}`},
			{Name: "images", Type: TypeImage, Optional: true},
			{Name: "videos", Type: TypeVideo, Optional: true},
			{Name: "audios", Type: TypeAudio, Optional: true},
			{Name: "delete_after_upload", Type: TypeBoolean, Default: true, Optional: true},
			Field{Name: "timeout_seconds", Type: TypeInt, Optional: true, Tooltip: "Per-file upload timeout. Defaults to uploads.timeoutSeconds, 0 disables it"}.WithRange(0, 86400),
		},
		Outputs: []Output{
			{Name: "upload_result", Type: TypeString},
		},
		OutputNode: true,
	}
}

func (n *OSSUpload) Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error) {
	manifest, err := uploading.ParseManifest([]byte(inputs.String("file_list")))
	if err != nil {
		return Outputs{uploading.ErrorReport(err.Error()).String()}, nil
	}

	timeout := ctx.Config.Uploads.TimeoutSeconds
	if _, ok := inputs["timeout_seconds"]; ok {
		timeout = inputs.Int("timeout_seconds")
	}

	report := n.dispatcher.Upload(ctx, uploading.UploadRequest{
		Credentials: uploading.Credentials{
			AccessKeyId:     inputs.String("access_key_id"),
			AccessKeySecret: inputs.String("access_key_secret"),
			SecurityToken:   inputs.String("security_token"),
		},
		Bucket:   inputs.String("bucket_name"),
		Endpoint: inputs.String("endpoint"),
		TaskId:   inputs.String("task_id"),
		Manifest: manifest,
		Attachments: uploading.Attachments{
			Images: inputs.Images("images"),
			Audios: inputs.Audios("audios"),
			Videos: inputs.Videos("videos"),
		},
		DeleteAfterUpload: inputs.Bool("delete_after_upload"),
		Timeout:           time.Duration(timeout) * time.Second,
	})
	return Outputs{report.String()}, nil
}
