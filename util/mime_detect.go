package util

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMimeType sniffs the leading bytes of b. When sniffing is inconclusive the declared content type
// (typically a response header) is used instead.
func DetectMimeType(b []byte, declared string) string {
	declared = NormalizeContentType(declared)

	detected := mimetype.Detect(b)
	if detected == nil || detected.Is(DefaultContentType) || detected.Is("text/plain") {
		if declared != "" {
			return declared
		}
		if detected == nil {
			return DefaultContentType
		}
	}
	return NormalizeContentType(detected.String())
}

// NormalizeContentType strips parameters (charset etc) and lowercases the type.
func NormalizeContentType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.TrimSpace(strings.Split(ct, ";")[0])
	}
	return strings.ToLower(mt)
}
