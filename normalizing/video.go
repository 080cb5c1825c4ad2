package normalizing

import (
	"errors"
	"os"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/util"
)

var VideoExtensions = []string{"mp4", "webm", "mov", "avi", "mkv", "flv", "mpeg", "mpg", "wmv"}

const DefaultVideoExtension = ".mp4"

// VideoExtension returns the url's extension (with the dot) when it is a known video type, otherwise .mp4.
func VideoExtension(url string) string {
	ext := util.UrlExtension(url)
	if util.ArrayContains(VideoExtensions, ext) {
		return "." + ext
	}
	return DefaultVideoExtension
}

// NormalizeVideo hands back the downloaded file. Videos are never decoded.
func NormalizeVideo(ctx rcontext.RequestContext, res *fetching.FetchResult) (*m.Video, error) {
	if res.InMemory() {
		return nil, &common.DecodeError{Kind: common.KindVideo, Err: errors.New("video was not downloaded to disk")}
	}
	info, err := os.Stat(res.FilePath)
	if err != nil {
		return nil, &common.DecodeError{Kind: common.KindVideo, Err: err}
	}
	if info.Size() == 0 {
		return nil, &common.DecodeError{Kind: common.KindVideo, Err: errors.New("downloaded file is empty")}
	}
	ctx.Log.Debug("Video available at ", res.FilePath)
	return &m.Video{
		FilePath:  res.FilePath,
		SizeBytes: info.Size(),
		Persisted: res.Persisted(),
	}, nil
}
