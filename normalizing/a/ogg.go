package a

import (
	"bytes"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/vorbis"
	"github.com/jfreymuth/oggvorbis"
)

type oggDecoder struct {
}

func (d oggDecoder) supportedContentTypes() []string {
	return []string{"audio/ogg", "application/ogg", "audio/vorbis"}
}

func (d oggDecoder) supportedExtensions() []string {
	return []string{"ogg", "oga"}
}

func (d oggDecoder) decode(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	audio, format, err := vorbis.Decode(r)
	if err != nil {
		return audio, format, fmt.Errorf("ogg: error decoding audio: %w", err)
	}
	return audio, format, nil
}

// usePlanes is always true: beep reports every vorbis stream as stereo.
func (d oggDecoder) usePlanes(format beep.Format) bool {
	return true
}

func (d oggDecoder) decodePlanes(b []byte) (*Samples, error) {
	data, format, err := oggvorbis.ReadAll(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("ogg: error decoding audio: %w", err)
	}
	channels := format.Channels
	if channels < 1 {
		return nil, fmt.Errorf("ogg: invalid channel count %d", channels)
	}

	frames := len(data) / channels
	planes := newPlanes(channels, frames)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			planes[c][i] = data[i*channels+c]
		}
	}
	return &Samples{Planes: planes, SampleRate: format.SampleRate}, nil
}

func init() {
	decoders = append(decoders, oggDecoder{})
}
