package a

import (
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
)

type mp3Decoder struct {
}

func (d mp3Decoder) supportedContentTypes() []string {
	return []string{"audio/mpeg", "audio/mp3", "audio/x-mpeg"}
}

func (d mp3Decoder) supportedExtensions() []string {
	return []string{"mp3"}
}

func (d mp3Decoder) decode(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	audio, format, err := mp3.Decode(r)
	if err != nil {
		return audio, format, fmt.Errorf("mp3: error decoding audio: %w", err)
	}
	return audio, format, nil
}

func init() {
	decoders = append(decoders, mp3Decoder{})
}
