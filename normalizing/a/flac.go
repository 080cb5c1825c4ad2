package a

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	goflac "github.com/mewkiz/flac"
)

type flacDecoder struct {
}

func (d flacDecoder) supportedContentTypes() []string {
	return []string{"audio/flac", "audio/x-flac"}
}

func (d flacDecoder) supportedExtensions() []string {
	return []string{"flac"}
}

func (d flacDecoder) decode(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	audio, format, err := flac.Decode(r)
	if err != nil {
		return audio, format, fmt.Errorf("flac: error decoding audio: %w", err)
	}
	return audio, format, nil
}

func (d flacDecoder) usePlanes(format beep.Format) bool {
	return format.NumChannels > 2
}

func (d flacDecoder) decodePlanes(b []byte) (*Samples, error) {
	stream, err := goflac.New(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("flac: error decoding audio: %w", err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	scale := float32(int64(1) << (stream.Info.BitsPerSample - 1))
	planes := newPlanes(channels, 0)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac: error decoding frame: %w", err)
		}
		for c := 0; c < channels && c < len(frame.Subframes); c++ {
			for _, v := range frame.Subframes[c].Samples {
				planes[c] = append(planes[c], float32(v)/scale)
			}
		}
	}
	return &Samples{Planes: planes, SampleRate: int(stream.Info.SampleRate)}, nil
}

func init() {
	decoders = append(decoders, flacDecoder{})
}
