package nodes

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/util"
)

var resourceAudioExtensions = []string{"mp3", "wav", "flac", "ogg", "m4a"}

// AudioTuple is the "tuple" audio output of the resource loader.
type AudioTuple struct {
	Waveform   *m.Tensor
	SampleRate int
}

// URLResourceLoader loads either an image or an audio file. It never fails: problems are described in
// the info output instead.
type URLResourceLoader struct {
	fetcher *fetching.Fetcher
}

func (n *URLResourceLoader) Schema() Schema {
	return Schema{
		Id:          "URLResourceLoader",
		DisplayName: "URL Resource Loader",
		Category:    "mixlab/URL Loader",
		Inputs: []Field{
			{Name: "url", Type: TypeString, Default: "https://picsum.photos/800/600"},
			Field{Name: "timeout", Type: TypeInt, Default: 10, Tooltip: "Request timeout in seconds"}.WithRange(1, 60),
			{Name: "audio_output_format", Type: TypeString, Default: "dict", Optional: true, Options: []string{"dict", "tuple"}},
		},
		Outputs: []Output{
			{Name: "image", Type: TypeImage},
			{Name: "audio", Type: TypeAudio},
			{Name: "info", Type: TypeString},
		},
	}
}

func resourceKind(contentType string, url string) common.MediaKind {
	if strings.Contains(contentType, "image") {
		return common.KindImage
	}
	if strings.Contains(contentType, "audio") || util.ArrayContains(resourceAudioExtensions, util.UrlExtension(url)) {
		return common.KindAudio
	}
	return ""
}

func (n *URLResourceLoader) Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error) {
	url := inputs.String("url")
	timeout := time.Duration(inputs.Int("timeout")) * time.Second

	res, err := n.fetcher.Fetch(ctx, url, fetching.Options{
		Timeout:    timeout,
		MaxRetries: ctx.Config.Downloads.MaxRetries.Resource,
	})
	if err != nil {
		return Outputs{nil, nil, fmt.Sprintf("error: request failed\nurl: %s\ntimeout: %s\nreason: %s", url, timeout, err.Error())}, nil
	}
	defer res.Discard()

	contentType := strings.ToLower(res.ContentTypeHint)
	switch resourceKind(contentType, url) {
	case common.KindImage:
		img, err := normalizing.NormalizeImage(ctx, res, m.Constraints{})
		if err != nil {
			return Outputs{nil, nil, failureInfo(url, err)}, nil
		}
		info := fmt.Sprintf("ok: image loaded\nurl: %s\nsize: %dx%d (%s)", url, img.Width(), img.Height(), humanize.Bytes(uint64(res.SizeBytes)))
		return Outputs{img, nil, info}, nil
	case common.KindAudio:
		// mono at the native rate
		audio, err := normalizing.NormalizeAudio(ctx, res, m.Constraints{Channels: 1})
		if err != nil {
			return Outputs{nil, nil, failureInfo(url, err)}, nil
		}
		format := inputs.String("audio_output_format")
		if format == "" {
			format = "dict"
		}
		info := fmt.Sprintf("ok: audio loaded\nurl: %s\nsample rate: %dHz\nduration: %.2fs\noutput format: %s", url, audio.SampleRate, audio.Duration.Seconds(), format)
		if format == "tuple" {
			return Outputs{nil, &AudioTuple{Waveform: audio.Waveform, SampleRate: audio.SampleRate}, info}, nil
		}
		return Outputs{nil, audio, info}, nil
	default:
		return Outputs{nil, nil, fmt.Sprintf("error: unsupported content type\ncontent type: %s\nurl: %s", res.ContentTypeHint, url)}, nil
	}
}

func failureInfo(url string, err error) string {
	return fmt.Sprintf("error: could not process resource\nreason: %s\nurl: %s", err.Error(), url)
}
