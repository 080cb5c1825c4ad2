package i

import (
	"bytes"
	"errors"
	"image"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"golang.org/x/image/bmp"
)

type bmpDecoder struct {
}

func (d bmpDecoder) supportedContentTypes() []string {
	return []string{"image/bmp", "image/x-bmp", "image/x-ms-bmp"}
}

func (d bmpDecoder) matches(b []byte, contentType string) bool {
	return matchesContentType(d, contentType)
}

func (d bmpDecoder) Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error) {
	img, err := bmp.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.New("bmp: error decoding image: " + err.Error())
	}
	return img, nil
}

func init() {
	decoders = append(decoders, bmpDecoder{})
}
