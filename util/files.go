package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common"
)

const InvalidFilenameChars = `\/:*?"<>|`

func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.InvalidInput("filename cannot be empty")
	}
	if strings.ContainsAny(name, InvalidFilenameChars) {
		return common.InvalidInput("filename cannot contain these characters: %s", InvalidFilenameChars)
	}
	return nil
}

// UniquePath returns dir/name+ext, or the first free dir/name_N+ext. The check is not atomic with the
// caller's subsequent create.
func UniquePath(dir string, name string, ext string) (string, error) {
	candidate := filepath.Join(dir, name+ext)
	for counter := 1; ; counter++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "error checking path "+candidate)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, counter, ext))
	}
}

// TryRemove deletes p, logging (never returning) any failure.
func TryRemove(p string) {
	if p == "" {
		return
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Error deleting file '%s': %s", p, err.Error())
		sentry.CaptureException(errors.Wrap(err, "error deleting file"))
	}
}
