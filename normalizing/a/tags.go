package a

import (
	"bytes"

	"github.com/dhowden/tag"
	"github.com/t2bot/url-media-nodes/normalizing/m"
)

// ReadTags returns the embedded metadata of an audio file, or nil when there is none.
func ReadTags(b []byte) *m.AudioTags {
	meta, err := tag.ReadFrom(bytes.NewReader(b))
	if err != nil || meta == nil {
		return nil // we don't care about errors in this process
	}
	t := &m.AudioTags{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Format: string(meta.FileType()),
	}
	if t.Title == "" && t.Artist == "" && t.Album == "" {
		return nil
	}
	return t
}
