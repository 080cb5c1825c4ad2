package i

import (
	"image"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/util"
)

type Decoder interface {
	supportedContentTypes() []string
	matches(b []byte, contentType string) bool
	Decode(b []byte, ctx rcontext.RequestContext) (image.Image, error)
}

var decoders = make([]Decoder, 0)

func GetDecoder(b []byte, contentType string) Decoder {
	for _, d := range decoders {
		if d.matches(b, contentType) {
			return d
		}
	}
	return nil
}

func GetSupportedContentTypes() []string {
	a := make([]string, 0)
	for _, d := range decoders {
		a = append(a, d.supportedContentTypes()...)
	}
	return a
}

func matchesContentType(d Decoder, contentType string) bool {
	return util.ArrayContains(d.supportedContentTypes(), contentType)
}
