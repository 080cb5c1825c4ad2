package i

import (
	"bytes"
	"errors"
	"image"
	"image/gif"

	"github.com/t2bot/url-media-nodes/common/rcontext"
)

type gifDecoder struct {
}

func (d gifDecoder) supportedContentTypes() []string {
	return []string{"image/gif"}
}

func (d gifDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

// Decode returns the first frame of animated images.
func (d gifDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := gif.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("gif: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, gifDecoder{})
}
