package nodes

import (
	"strings"
	"time"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
)

type LoadAudioFromURL struct {
	fetcher *fetching.Fetcher
}

func (n *LoadAudioFromURL) Schema() Schema {
	return Schema{
		Id:          "LoadAudioFromURL",
		DisplayName: "Load Audio From URL",
		Category:    "loaders",
		Inputs: []Field{
			{Name: "audio_url", Type: TypeString, Default: ""},
		},
		Outputs: []Output{
			{Name: "audio", Type: TypeAudio},
		},
	}
}

func (n *LoadAudioFromURL) ValidateInputs(inputs Inputs) error {
	if strings.TrimSpace(inputs.String("audio_url")) == "" {
		return common.InvalidInput("audio url cannot be empty")
	}
	return nil
}

func (n *LoadAudioFromURL) Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error) {
	req := m.MediaRequest{
		Url:  strings.TrimSpace(inputs.String("audio_url")),
		Kind: common.KindAudio,
		Constraints: m.Constraints{
			TargetSampleRate: ctx.Config.Audio.TargetSampleRate,
		},
	}

	res, err := n.fetcher.Fetch(ctx, req.Url, fetching.Options{
		Kind:       common.KindAudio,
		Timeout:    time.Duration(ctx.Config.Downloads.TimeoutSeconds.Audio) * time.Second,
		MaxRetries: ctx.Config.Downloads.MaxRetries.Audio,
		Accept:     audioAccept(),
	})
	if err != nil {
		return nil, wrapLoadError("audio", err)
	}
	defer res.Discard()

	media, err := normalizing.Normalize(ctx, res, req)
	if err != nil {
		return nil, wrapLoadError("audio", err)
	}
	return Outputs{media.(*m.Audio)}, nil
}
