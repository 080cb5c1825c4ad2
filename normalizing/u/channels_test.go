package u

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/t2bot/url-media-nodes/common"
)

func TestMixChannelsIdentity(t *testing.T) {
	stereo := [][]float32{{0.1, 0.2, -0.3}, {0.4, -0.5, 0.6}}
	out, err := MixChannels(stereo, 2)
	require.NoError(t, err)
	assert.Equal(t, stereo, out)

	out, err = MixChannels(stereo, 0)
	require.NoError(t, err)
	assert.Equal(t, stereo, out)
}

func TestMixChannelsDownmix(t *testing.T) {
	out, err := MixChannels([][]float32{{1, 0}, {0, 0.5}}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDeltaSlice(t, []float32{0.5, 0.25}, out[0], 1e-6)
}

func TestMixChannelsUpmixMono(t *testing.T) {
	out, err := MixChannels([][]float32{{0.1, 0.2}}, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, p := range out {
		assert.Equal(t, []float32{0.1, 0.2}, p)
	}

	// copies, not views
	out[0][0] = 9
	assert.Equal(t, float32(0.1), out[1][0])
}

func TestMixChannelsToStereoKeepsFirstTwo(t *testing.T) {
	out, err := MixChannels([][]float32{{1}, {2}, {3}, {4}}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, out)
}

func TestMixChannelsRejectsOtherUpmix(t *testing.T) {
	_, err := MixChannels([][]float32{{1}, {2}}, 4)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = MixChannels([][]float32{{1}}, MaxChannels+1)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
