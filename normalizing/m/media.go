package m

import (
	"time"

	"github.com/t2bot/url-media-nodes/common"
)

// Constraints are optional; zero means "not given".
type Constraints struct {
	Width            int
	Height           int
	TargetSampleRate int
	Channels         int
}

type MediaRequest struct {
	Url         string
	Kind        common.MediaKind
	Constraints Constraints
}

type NormalizedMedia interface {
	Kind() common.MediaKind
}

// Image holds a [1,H,W,3] tensor in [0,1] and a [1,H,W] mask of ones.
type Image struct {
	Tensor *Tensor
	Mask   *Tensor
}

func (i *Image) Kind() common.MediaKind {
	return common.KindImage
}

func (i *Image) Width() int {
	return i.Tensor.Shape[2]
}

func (i *Image) Height() int {
	return i.Tensor.Shape[1]
}

// Audio holds a channels x frames waveform. The waveform is always 2 dimensional.
type Audio struct {
	Waveform   *Tensor
	SampleRate int
	Duration   time.Duration
	Tags       *AudioTags
}

func (a *Audio) Kind() common.MediaKind {
	return common.KindAudio
}

func (a *Audio) Channels() int {
	return a.Waveform.Shape[0]
}

func (a *Audio) Frames() int {
	return a.Waveform.Shape[1]
}

type AudioTags struct {
	Title  string
	Artist string
	Album  string
	Format string
}

type Video struct {
	FilePath  string
	SizeBytes int64
	Persisted bool
}

func (v *Video) Kind() common.MediaKind {
	return common.KindVideo
}
