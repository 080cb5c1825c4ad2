package u

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResampleLength(t *testing.T) {
	assert.Equal(t, 16000, len(Resample(make([]float32, 44100), 44100, 16000)))
	assert.Equal(t, 9, len(Resample(make([]float32, 3), 8000, 22050)))
}

func TestResampleSameRate(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	assert.Equal(t, in, Resample(in, 16000, 16000))
}

func TestResamplePreservesLowFrequencies(t *testing.T) {
	const from, to = 48000, 16000
	in := make([]float32, from/10)
	for n := range in {
		in[n] = float32(math.Sin(2 * math.Pi * 440 * float64(n) / from))
	}

	out := Resample(in, from, to)
	// skip the edges where the kernel runs out of input
	for n := 50; n < len(out)-50; n++ {
		expected := math.Sin(2 * math.Pi * 440 * float64(n) / to)
		assert.InDelta(t, expected, float64(out[n]), 0.02, "sample %d", n)
	}
}

func TestResampleUpsample(t *testing.T) {
	in := make([]float32, 1600)
	for n := range in {
		in[n] = 0.5
	}
	out := Resample(in, 8000, 16000)
	assert.Len(t, out, 3200)
	for n := 100; n < len(out)-100; n++ {
		assert.InDelta(t, 0.5, float64(out[n]), 0.01, "sample %d", n)
	}
}
