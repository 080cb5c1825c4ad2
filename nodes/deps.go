package nodes

import (
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/uploading"
)

type Deps struct {
	Fetcher    *fetching.Fetcher
	Dispatcher *uploading.Dispatcher
}

// NewDefaultRegistry registers every node.
func NewDefaultRegistry(deps Deps) (*Registry, error) {
	r := NewRegistry()
	for _, n := range []Node{
		&LoadImageFromURL{fetcher: deps.Fetcher},
		&LoadAudioFromURL{fetcher: deps.Fetcher},
		&URLResourceLoader{fetcher: deps.Fetcher},
		&ComfyVideoURLLoader{fetcher: deps.Fetcher},
		&OSSUpload{dispatcher: deps.Dispatcher},
	} {
		if err := r.Register(n); err != nil {
			return nil, err
		}
	}
	return r, nil
}
