package fetching

import (
	"os"

	"github.com/t2bot/url-media-nodes/util"
)

// FetchResult is the raw payload of one fetch. Exactly one of Data or FilePath is set.
type FetchResult struct {
	Url             string
	Data            []byte
	FilePath        string
	ContentTypeHint string
	Filename        string
	SizeBytes       int64

	persisted bool
}

func (r *FetchResult) InMemory() bool {
	return r.FilePath == ""
}

// Persisted is true when the file lives in a caller-chosen directory rather than the temp directory.
func (r *FetchResult) Persisted() bool {
	return r.persisted
}

// Bytes returns the payload, reading it from disk when needed.
func (r *FetchResult) Bytes() ([]byte, error) {
	if r.InMemory() {
		return r.Data, nil
	}
	return os.ReadFile(r.FilePath)
}

// Keep marks a temporary file as owned by someone else so Discard leaves it in place.
func (r *FetchResult) Keep() {
	r.persisted = true
}

// Discard releases the payload. Temporary files are deleted (best effort); persisted files are kept.
func (r *FetchResult) Discard() {
	r.Data = nil
	if r.FilePath != "" && !r.persisted {
		util.TryRemove(r.FilePath)
	}
}
