package i

import (
	"bytes"
	"errors"
	"image"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"golang.org/x/image/tiff"
)

type tiffDecoder struct {
}

func (d tiffDecoder) supportedContentTypes() []string {
	return []string{"image/tiff"}
}

func (d tiffDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d tiffDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := tiff.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("tiff: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, tiffDecoder{})
}
