package normalizing

import (
	"fmt"
	"time"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing/a"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/normalizing/u"
	"github.com/t2bot/url-media-nodes/util"
)

func NormalizeAudio(ctx rcontext.RequestContext, res *fetching.FetchResult, c m.Constraints) (*m.Audio, error) {
	if err := u.ValidateChannels(c.Channels); err != nil {
		return nil, err
	}
	if c.TargetSampleRate < 0 {
		return nil, common.InvalidInput("target sample rate cannot be negative (got %d)", c.TargetSampleRate)
	}

	b, err := res.Bytes()
	if err != nil {
		return nil, err
	}
	samples, err := DecodeAudio(ctx, b, res.ContentTypeHint, res.Url)
	if err != nil {
		return nil, err
	}

	planes := samples.Planes
	rate := samples.SampleRate
	if c.TargetSampleRate > 0 && c.TargetSampleRate != rate {
		ctx.Log.Debugf("Resampling %d Hz to %d Hz", rate, c.TargetSampleRate)
		for ch := range planes {
			planes[ch] = u.Resample(planes[ch], rate, c.TargetSampleRate)
		}
		rate = c.TargetSampleRate
	}

	planes, err = u.MixChannels(planes, c.Channels)
	if err != nil {
		return nil, err
	}

	audio := PlanesToAudio(planes, rate)
	audio.Tags = a.ReadTags(b)
	return audio, nil
}

// DecodeAudio selects a decoder by sniffed content type, then by the url's extension.
func DecodeAudio(ctx rcontext.RequestContext, b []byte, contentTypeHint string, url string) (*a.Samples, error) {
	contentType := util.DetectMimeType(b, contentTypeHint)
	d := a.GetDecoder(contentType, util.UrlExtension(url))
	if d == nil {
		return nil, &common.DecodeError{
			Kind: common.KindAudio,
			Err:  fmt.Errorf("%w: %s", common.ErrUnsupportedMedia, contentType),
		}
	}
	ctx.Log.Debug("Decoding audio as ", contentType)

	samples, err := a.Decode(d, b)
	if err != nil {
		return nil, &common.DecodeError{Kind: common.KindAudio, Err: err}
	}
	if samples.SampleRate <= 0 {
		return nil, &common.DecodeError{Kind: common.KindAudio, Err: fmt.Errorf("invalid sample rate %d", samples.SampleRate)}
	}
	return samples, nil
}

// PlanesToAudio packs per-channel samples into a channels x frames waveform.
func PlanesToAudio(planes [][]float32, sampleRate int) *m.Audio {
	frames := 0
	if len(planes) > 0 {
		frames = len(planes[0])
	}
	waveform := m.NewTensor(len(planes), frames)
	for ch, p := range planes {
		copy(waveform.Data[ch*frames:(ch+1)*frames], p)
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
	}
	return &m.Audio{
		Waveform:   waveform,
		SampleRate: sampleRate,
		Duration:   duration,
	}
}

// AudioToPlanes is the inverse of PlanesToAudio.
func AudioToPlanes(audio *m.Audio) [][]float32 {
	frames := audio.Frames()
	planes := make([][]float32, audio.Channels())
	for ch := range planes {
		planes[ch] = audio.Waveform.Data[ch*frames : (ch+1)*frames]
	}
	return planes
}

// MixAudio applies a channel constraint to an already normalized waveform.
func MixAudio(audio *m.Audio, channels int) (*m.Audio, error) {
	planes, err := u.MixChannels(AudioToPlanes(audio), channels)
	if err != nil {
		return nil, err
	}
	mixed := PlanesToAudio(planes, audio.SampleRate)
	mixed.Tags = audio.Tags
	return mixed, nil
}
