package nodes

import (
	"strings"

	"github.com/t2bot/url-media-nodes/normalizing/a"
	"github.com/t2bot/url-media-nodes/normalizing/i"
)

// acceptHeader prefers the types a decoder exists for, then anything in family, then anything at all.
func acceptHeader(types []string, family string) string {
	return strings.Join(types, ",") + "," + family + "/*;q=0.9,*/*;q=0.8"
}

func imageAccept() string {
	return acceptHeader(i.GetSupportedContentTypes(), "image")
}

func audioAccept() string {
	return acceptHeader(a.GetSupportedContentTypes(), "audio")
}
