package i

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/t2bot/url-media-nodes/common/rcontext"
)

type pngDecoder struct {
}

func (d pngDecoder) supportedContentTypes() []string {
	return []string{"image/png", "image/apng"}
}

func (d pngDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d pngDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("png: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, pngDecoder{})
}
