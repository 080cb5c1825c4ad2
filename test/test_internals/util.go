package test_internals

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/rcontext"
)

var evenColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
var oddColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
var altColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

func colorFor(x int, y int) color.Color {
	c := oddColor
	if (y%2.0) == 0 && (x%2.0) == 0 {
		c = altColor
	} else if (y%2.0) == 0 || (x%2.0) == 0 {
		c = evenColor
	}
	return c
}

// MakeTestConfig installs a default configuration rooted in t's temp directory so nothing is written
// next to the package under test.
func MakeTestConfig(t *testing.T) *config.NodesConfig {
	c := config.NewDefaultConfig()
	c.Paths.InputDirectory = t.TempDir()
	c.Paths.OutputDirectory = t.TempDir()
	c.Paths.TempDirectory = t.TempDir()
	c.Downloads.RetryBackoffMs = 1
	config.Set(c)
	return c
}

func MakeTestContext(t *testing.T) rcontext.RequestContext {
	MakeTestConfig(t)
	return rcontext.Initial()
}

func MakeTestImage(width int, height int) (string, io.Reader, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := colorFor(x, y)
			img.Set(x, y, c)
		}
	}

	b := bytes.NewBuffer(make([]byte, 0))
	err := imaging.Encode(b, img, imaging.PNG)
	if err != nil {
		return "", nil, err
	}

	return "image/png", b, nil
}

func MakeTestImageBytes(t *testing.T, width int, height int) []byte {
	_, r, err := MakeTestImage(width, height)
	assert.NoError(t, err)
	b, err := io.ReadAll(r)
	assert.NoError(t, err)
	return b
}

type writerAtBuffer struct {
	buf []byte
	pos int
}

func (w *writerAtBuffer) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writerAtBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		w.pos = int(offset)
	case io.SeekCurrent:
		w.pos += int(offset)
	case io.SeekEnd:
		w.pos = len(w.buf) + int(offset)
	}
	return int64(w.pos), nil
}

// MakeTestWav encodes a 16-bit wav where channel c of frame i holds sample(c, i).
func MakeTestWav(t *testing.T, sampleRate int, channels int, frames int, sample func(c int, i int) float64) []byte {
	if channels > 2 {
		return makeMultichannelWav(t, sampleRate, channels, frames, sample)
	}
	format := beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: channels, Precision: 2}
	pos := 0
	streamer := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= frames {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < frames {
			samples[n][0] = sample(0, pos)
			if channels > 1 {
				samples[n][1] = sample(1, pos)
			} else {
				samples[n][1] = samples[n][0]
			}
			n++
			pos++
		}
		return n, true
	})

	w := &writerAtBuffer{}
	err := wav.Encode(w, streamer, format)
	assert.NoError(t, err)
	return w.buf
}

// beep only encodes mono and stereo
func makeMultichannelWav(t *testing.T, sampleRate int, channels int, frames int, sample func(c int, i int) float64) []byte {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			buf.Data[i*channels+c] = int(sample(c, i) * 32767)
		}
	}

	w := &writerAtBuffer{}
	enc := gowav.NewEncoder(w, sampleRate, 16, channels, 1)
	assert.NoError(t, enc.Write(buf))
	assert.NoError(t, enc.Close())
	return w.buf
}

// FlakyServer fails the first `failures` requests with a 503 before serving body.
type FlakyServer struct {
	*httptest.Server
	Requests int32
}

func NewFlakyServer(failures int32, contentType string, body []byte) *FlakyServer {
	s := &FlakyServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&s.Requests, 1)
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	return s
}

func (s *FlakyServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.Requests))
}

// MakeJpegWithOrientation encodes img as a JPEG carrying a minimal EXIF block with the given orientation tag.
func MakeJpegWithOrientation(t *testing.T, img image.Image, orientation uint16) []byte {
	buf := &bytes.Buffer{}
	assert.NoError(t, imaging.Encode(buf, img, imaging.JPEG))
	b := buf.Bytes()

	app1 := []byte{
		0xFF, 0xE1, 0x00, 0x22, // APP1, length includes itself
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, // big endian TIFF header, IFD0 at 8
		0x00, 0x01, // one entry
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}

	out := make([]byte, 0, len(b)+len(app1))
	out = append(out, b[:2]...) // SOI
	out = append(out, app1...)
	out = append(out, b[2:]...)
	return out
}
