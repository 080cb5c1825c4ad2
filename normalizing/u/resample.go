package u

import "math"

const (
	// zero crossings of the sinc kernel on each side
	lowpassFilterWidth = 6
	rolloff            = 0.99
)

// ResampledLength is the frame count after converting frames from one rate to another.
func ResampledLength(frames int, fromRate int, toRate int) int {
	return int(math.Ceil(float64(frames) * float64(toRate) / float64(fromRate)))
}

// Resample converts one channel of samples with Hann-windowed sinc interpolation. The cutoff sits just
// below the lower of the two Nyquist frequencies.
func Resample(samples []float32, fromRate int, toRate int) []float32 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(toRate) / float64(fromRate)
	cutoff := rolloff * math.Min(1, ratio)
	// kernel half-width, in input samples
	width := math.Ceil(lowpassFilterWidth / cutoff)

	out := make([]float32, ResampledLength(len(samples), fromRate, toRate))
	last := len(samples) - 1
	for n := range out {
		t := float64(n) / ratio
		lo := int(math.Ceil(t - width))
		hi := int(math.Floor(t + width))
		if lo < 0 {
			lo = 0
		}
		if hi > last {
			hi = last
		}

		var acc float64
		for k := lo; k <= hi; k++ {
			d := t - float64(k)
			acc += float64(samples[k]) * cutoff * sinc(cutoff*d) * hann(d/width)
		}
		out[n] = float32(acc)
	}
	return out
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// hann is the window over [-1, 1].
func hann(x float64) float64 {
	if x <= -1 || x >= 1 {
		return 0
	}
	c := math.Cos(math.Pi * x / 2)
	return c * c
}
