package i

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"github.com/t2bot/url-media-nodes/common/rcontext"
)

type jpgDecoder struct {
}

func (d jpgDecoder) supportedContentTypes() []string {
	return []string{"image/jpeg", "image/jpg", "image/pjpeg"}
}

func (d jpgDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d jpgDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("jpeg: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, jpgDecoder{})
}
