package a

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	gowav "github.com/go-audio/wav"
)

const (
	wavFormatPcm        = 1
	wavFormatExtensible = 0xFFFE
)

type wavDecoder struct {
}

func (d wavDecoder) supportedContentTypes() []string {
	return []string{"audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave"}
}

func (d wavDecoder) supportedExtensions() []string {
	return []string{"wav", "wave"}
}

func (d wavDecoder) decode(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	audio, format, err := wav.Decode(r)
	if err != nil {
		return audio, format, fmt.Errorf("wav: error decoding audio: %w", err)
	}
	return audio, format, nil
}

func (d wavDecoder) usePlanes(format beep.Format) bool {
	return format.NumChannels > 2
}

func (d wavDecoder) decodePlanes(b []byte) (*Samples, error) {
	dec := gowav.NewDecoder(bytes.NewReader(b))
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("wav: error reading header: %w", err)
	}
	if dec.WavAudioFormat != wavFormatPcm && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("wav: unsupported encoding %d for %d channels", dec.WavAudioFormat, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: error decoding audio: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 || buf.SourceBitDepth < 8 {
		return nil, errors.New("wav: invalid format")
	}

	frames := len(buf.Data) / channels
	planes := newPlanes(channels, frames)
	scale := float32(int64(1) << (buf.SourceBitDepth - 1))
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := buf.Data[i*channels+c]
			if buf.SourceBitDepth == 8 {
				// 8 bit samples are unsigned
				v -= 128
			}
			planes[c][i] = float32(v) / scale
		}
	}
	return &Samples{Planes: planes, SampleRate: buf.Format.SampleRate}, nil
}

func init() {
	decoders = append(decoders, wavDecoder{})
}
