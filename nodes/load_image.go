package nodes

import (
	"time"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/normalizing/u"
)

type LoadImageFromURL struct {
	fetcher *fetching.Fetcher
}

func (n *LoadImageFromURL) Schema() Schema {
	return Schema{
		Id:          "LoadImageFromURL",
		DisplayName: "Load Image From URL",
		Category:    "image/loaders",
		Inputs: []Field{
			{Name: "image_url", Type: TypeString, Default: "https://example.com/image.jpg"},
			Field{Name: "width", Type: TypeInt, Default: 0, Tooltip: "0 keeps the original width"}.WithRange(0, u.MaxDimension),
			Field{Name: "height", Type: TypeInt, Default: 0, Tooltip: "0 keeps the original height"}.WithRange(0, u.MaxDimension),
		},
		Outputs: []Output{
			{Name: "image", Type: TypeImage},
			{Name: "mask", Type: TypeMask},
		},
	}
}

func (n *LoadImageFromURL) Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error) {
	req := m.MediaRequest{
		Url:  inputs.String("image_url"),
		Kind: common.KindImage,
		Constraints: m.Constraints{
			Width:  inputs.Int("width"),
			Height: inputs.Int("height"),
		},
	}

	res, err := n.fetcher.Fetch(ctx, req.Url, fetching.Options{
		Kind:       common.KindImage,
		Timeout:    time.Duration(ctx.Config.Downloads.TimeoutSeconds.Image) * time.Second,
		MaxRetries: ctx.Config.Downloads.MaxRetries.Image,
		Accept:     imageAccept(),
	})
	if err != nil {
		return nil, wrapLoadError("image", err)
	}
	defer res.Discard()

	media, err := normalizing.Normalize(ctx, res, req)
	if err != nil {
		return nil, wrapLoadError("image", err)
	}
	img := media.(*m.Image)
	return Outputs{img, img.Mask}, nil
}
