package util

import (
	"net/url"
	"path"
	"strings"

	"github.com/t2bot/url-media-nodes/common"
)

var AllowedSchemes = []string{"http://", "https://"}

// ValidateHttpUrl trims the url and checks it names an http(s) resource. No network access happens here.
func ValidateHttpUrl(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", common.InvalidInput("url cannot be empty")
	}
	if !HasAnyPrefix(trimmed, AllowedSchemes) {
		return "", common.InvalidInput("url must start with http:// or https:// (got: %s)", trimmed)
	}
	if _, err := url.Parse(trimmed); err != nil {
		return "", common.InvalidInput("url could not be parsed: %s", err.Error())
	}
	return trimmed, nil
}

// UrlExtension returns the lowercased extension (without the dot) of the url's path, ignoring any query.
func UrlExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
}

// UrlFilename returns the final path segment of the url, or an empty string.
func UrlFilename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
