package i

import (
	"bytes"
	"errors"
	"image"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"golang.org/x/image/webp"
)

type webpDecoder struct {
}

func (d webpDecoder) supportedContentTypes() []string {
	return []string{"image/webp"}
}

func (d webpDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d webpDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := webp.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("webp: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, webpDecoder{})
}
