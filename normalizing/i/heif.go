package i

import (
	"bytes"
	"errors"
	"image"

	"github.com/adrium/goheif"
	"github.com/t2bot/url-media-nodes/common/rcontext"
)

type heifDecoder struct {
}

func (d heifDecoder) supportedContentTypes() []string {
	return []string{"image/heif", "image/heic", "image/heif-sequence", "image/heic-sequence"}
}

func (d heifDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d heifDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := goheif.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("heif: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, heifDecoder{})
}
