package u

import "github.com/t2bot/url-media-nodes/common"

const MaxChannels = 8

func ValidateChannels(channels int) error {
	if channels < 0 || channels > MaxChannels {
		return common.InvalidInput("channels must be between 0 and %d (got %d)", MaxChannels, channels)
	}
	return nil
}

// MixChannels converts planar samples (one slice per channel) to the target channel count. A target of 0
// keeps the layout as-is. Down-mixing to mono averages, mono is duplicated for up-mixing, and anything
// going to stereo keeps the first two channels.
func MixChannels(planes [][]float32, target int) ([][]float32, error) {
	if err := ValidateChannels(target); err != nil {
		return nil, err
	}
	current := len(planes)
	if target == 0 || target == current {
		return planes, nil
	}
	if current == 0 {
		return nil, common.InvalidInput("no channels to mix")
	}

	frames := len(planes[0])
	switch {
	case target == 1:
		mixed := make([]float32, frames)
		for i := 0; i < frames; i++ {
			var sum float32
			for c := 0; c < current; c++ {
				sum += planes[c][i]
			}
			mixed[i] = sum / float32(current)
		}
		return [][]float32{mixed}, nil
	case current == 1:
		out := make([][]float32, target)
		for c := range out {
			out[c] = make([]float32, frames)
			copy(out[c], planes[0])
		}
		return out, nil
	case target == 2:
		return planes[:2], nil
	default:
		return nil, common.InvalidInput("cannot mix %d channels to %d channels", current, target)
	}
}
