package normalizing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/metrics"
	"github.com/t2bot/url-media-nodes/normalizing/m"
)

// Normalize converts a fetched payload into the shape the host expects for req.Kind. The fetch result
// is left for the caller to discard.
func Normalize(ctx rcontext.RequestContext, res *fetching.FetchResult, req m.MediaRequest) (m.NormalizedMedia, error) {
	var media m.NormalizedMedia
	var err error
	switch req.Kind {
	case common.KindImage:
		media, err = NormalizeImage(ctx, res, req.Constraints)
	case common.KindAudio:
		media, err = NormalizeAudio(ctx, res, req.Constraints)
	case common.KindVideo:
		media, err = NormalizeVideo(ctx, res)
	default:
		return nil, common.InvalidInput("unknown media kind: %s", req.Kind)
	}
	if err != nil {
		return nil, err
	}

	metrics.MediaNormalized.With(prometheus.Labels{"kind": string(req.Kind)}).Inc()
	return media, nil
}
