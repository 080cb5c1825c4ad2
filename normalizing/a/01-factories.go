package a

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/t2bot/url-media-nodes/util"
)

type Decoder interface {
	supportedContentTypes() []string
	supportedExtensions() []string
	decode(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)
}

var decoders = make([]Decoder, 0)

// GetDecoder picks a decoder by content type first, then by file extension (without the dot).
func GetDecoder(contentType string, extension string) Decoder {
	for _, d := range decoders {
		if util.ArrayContains(d.supportedContentTypes(), contentType) {
			return d
		}
	}
	for _, d := range decoders {
		if extension != "" && util.ArrayContains(d.supportedExtensions(), extension) {
			return d
		}
	}
	return nil
}

func GetSupportedContentTypes() []string {
	a := make([]string, 0)
	for _, d := range decoders {
		a = append(a, d.supportedContentTypes()...)
	}
	return a
}

// planarDecoder reads every channel itself. beep streams are stereo, so sources with more channels
// (or, for vorbis, a channel count beep doesn't report) go through here instead.
type planarDecoder interface {
	usePlanes(format beep.Format) bool
	decodePlanes(b []byte) (*Samples, error)
}

// Samples is a fully decoded stream, one slice per channel.
type Samples struct {
	Planes     [][]float32
	SampleRate int
}

func (s *Samples) Frames() int {
	if len(s.Planes) == 0 {
		return 0
	}
	return len(s.Planes[0])
}

func readStream(audio beep.Streamer, format beep.Format) (*Samples, error) {
	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	} else if channels > 2 {
		return nil, fmt.Errorf("cannot stream %d channels", channels)
	}
	planes := make([][]float32, channels)
	for c := range planes {
		planes[c] = make([]float32, 0)
	}

	samples := make([][2]float64, 100000)
	for {
		n, ok := audio.Stream(samples)
		for i := 0; i < n; i++ {
			for c := 0; c < channels; c++ {
				planes[c] = append(planes[c], float32(samples[i][c]))
			}
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := audio.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.New("error sampling audio: " + err.Error())
	}

	return &Samples{Planes: planes, SampleRate: int(format.SampleRate)}, nil
}

func newPlanes(channels int, frames int) [][]float32 {
	planes := make([][]float32, channels)
	for c := range planes {
		planes[c] = make([]float32, frames)
	}
	return planes
}

// Decode runs d over b and returns every sample of every channel.
func Decode(d Decoder, b []byte) (*Samples, error) {
	audio, format, err := d.decode(io.NopCloser(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	//goland:noinspection GoUnhandledErrorResult
	defer audio.Close()

	if pd, ok := d.(planarDecoder); ok && pd.usePlanes(format) {
		return pd.decodePlanes(b)
	}
	if format.NumChannels > 2 {
		return nil, fmt.Errorf("%d channel audio is not supported for this format", format.NumChannels)
	}
	return readStream(audio, format)
}
