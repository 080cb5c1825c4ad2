package nodes

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/util"
)

type ComfyVideoURLLoader struct {
	fetcher *fetching.Fetcher
}

func (n *ComfyVideoURLLoader) Schema() Schema {
	return Schema{
		Id:          "ComfyVideoURLLoader",
		DisplayName: "Load Video From URL",
		Category:    "image/video",
		Description: "Load a video from a remote URL (supports http/https)",
		Inputs: []Field{
			{Name: "video_url", Type: TypeString, Default: "", Tooltip: "URL of the video to load. Supported formats: mp4, webm, mov, avi, mkv, flv"},
			{Name: "save_to_input_folder", Type: TypeBoolean, Default: false, Tooltip: "Save into the input folder instead of a temporary file"},
			{Name: "filename", Type: TypeString, Default: "downloaded_video", Tooltip: "Filename for the saved video (without extension)"},
		},
		Outputs: []Output{
			{Name: "video", Type: TypeVideo},
		},
	}
}

func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Fingerprint is the hex MD5 of "url|save|filename" with the save flag spelled True/False.
func (n *ComfyVideoURLLoader) Fingerprint(inputs Inputs) string {
	data := fmt.Sprintf("%s|%s|%s", inputs.String("video_url"), pythonBool(inputs.Bool("save_to_input_folder")), inputs.String("filename"))
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

func (n *ComfyVideoURLLoader) ValidateInputs(inputs Inputs) error {
	if _, err := util.ValidateHttpUrl(inputs.String("video_url")); err != nil {
		return err
	}
	if inputs.Bool("save_to_input_folder") {
		if err := util.ValidateFilename(inputs.String("filename")); err != nil {
			return err
		}
	}
	return nil
}

func (n *ComfyVideoURLLoader) Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error) {
	url := inputs.String("video_url")
	save := inputs.Bool("save_to_input_folder")

	res, err := n.fetcher.FetchToFile(ctx, url, fetching.FileOptions{
		Options: fetching.Options{
			Kind:       common.KindVideo,
			Timeout:    time.Duration(ctx.Config.Downloads.TimeoutSeconds.Video) * time.Second,
			MaxRetries: ctx.Config.Downloads.MaxRetries.Video,
		},
		Persist:   save,
		Directory: ctx.Config.Paths.InputDirectory,
		BaseName:  inputs.String("filename"),
		Extension: normalizing.VideoExtension(url),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load video")
	}

	media, err := normalizing.Normalize(ctx, res, m.MediaRequest{Url: url, Kind: common.KindVideo})
	if err != nil {
		res.Discard()
		return nil, errors.Wrap(err, "failed to load video")
	}
	// the host reads the file after we return
	res.Keep()
	return Outputs{media.(*m.Video)}, nil
}
