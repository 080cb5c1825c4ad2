package uploading

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/t2bot/url-media-nodes/normalizing"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/util"
)

// Attachments are in-memory outputs handed straight to the upload node.
type Attachments struct {
	Images []*m.Image
	Audios []*m.Audio
	Videos []*m.Video
}

func (a Attachments) Empty() bool {
	return len(a.Images) == 0 && len(a.Audios) == 0 && len(a.Videos) == 0
}

func clampByte(v float32) uint8 {
	f := v*255 + 0.5
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// TensorToImages splits a [B,H,W,3] tensor into B images.
func TensorToImages(t *m.Tensor) ([]*image.NRGBA, error) {
	if t.Dims() != 4 || t.Shape[3] != 3 {
		return nil, fmt.Errorf("expected a [B,H,W,3] image tensor, got %v", t.Shape)
	}
	batch, h, w := t.Shape[0], t.Shape[1], t.Shape[2]
	images := make([]*image.NRGBA, batch)
	for b := 0; b < batch; b++ {
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		base := b * h * w * 3
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				src := base + (y*w+x)*3
				dst := y*img.Stride + x*4
				img.Pix[dst] = clampByte(t.Data[src])
				img.Pix[dst+1] = clampByte(t.Data[src+1])
				img.Pix[dst+2] = clampByte(t.Data[src+2])
				img.Pix[dst+3] = 255
			}
		}
		images[b] = img
	}
	return images, nil
}

func createUnique(dir string, name string, ext string) (*os.File, error) {
	target, err := util.UniquePath(dir, name, ext)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
}

// SaveImage writes every frame of img as PNG into dir.
func SaveImage(dir string, prefix string, img *m.Image) ([]string, error) {
	frames, err := TensorToImages(img.Tensor)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(frames))
	for n, frame := range frames {
		f, err := createUnique(dir, fmt.Sprintf("%s_%05d", prefix, n), ".png")
		if err != nil {
			return names, err
		}
		err = imaging.Encode(f, frame, imaging.PNG)
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			util.TryRemove(f.Name())
			return names, errors.Wrap(err, "error encoding png")
		}
		names = append(names, filepath.Base(f.Name()))
	}
	return names, nil
}

type planeStreamer struct {
	planes [][]float32
	pos    int
}

func (s *planeStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := len(s.planes[0])
	if s.pos >= frames {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.pos < frames {
		samples[n][0] = float64(s.planes[0][s.pos])
		samples[n][1] = float64(s.planes[len(s.planes)-1][s.pos])
		n++
		s.pos++
	}
	return n, true
}

func (s *planeStreamer) Err() error {
	return nil
}

// SaveAudio writes a 16-bit WAV into dir. Waveforms with more than two channels keep the first two.
func SaveAudio(dir string, prefix string, audio *m.Audio) (string, error) {
	if audio.Channels() == 0 || audio.SampleRate <= 0 {
		return "", fmt.Errorf("cannot save audio with %d channels at %d Hz", audio.Channels(), audio.SampleRate)
	}
	if audio.Channels() > 2 {
		var err error
		if audio, err = normalizing.MixAudio(audio, 2); err != nil {
			return "", err
		}
	}

	f, err := createUnique(dir, prefix, ".wav")
	if err != nil {
		return "", err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(audio.SampleRate),
		NumChannels: audio.Channels(),
		Precision:   2,
	}
	err = wav.Encode(f, &planeStreamer{planes: normalizing.AudioToPlanes(audio)}, format)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		util.TryRemove(f.Name())
		return "", errors.Wrap(err, "error encoding wav")
	}
	return filepath.Base(f.Name()), nil
}

// PlaceVideo makes sure the video lives under dir, copying it in when it lives elsewhere. It returns the
// manifest entry for the file.
func PlaceVideo(dir string, video *m.Video) (ManifestEntry, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ManifestEntry{}, err
	}
	absFile, err := filepath.Abs(video.FilePath)
	if err != nil {
		return ManifestEntry{}, err
	}
	if rel, err := filepath.Rel(absDir, absFile); err == nil && !strings.HasPrefix(rel, "..") {
		sub := filepath.Dir(rel)
		if sub == "." {
			sub = ""
		}
		return ManifestEntry{Filename: filepath.Base(rel), Subfolder: sub}, nil
	}

	src, err := os.Open(video.FilePath)
	if err != nil {
		return ManifestEntry{}, err
	}
	defer src.Close()

	ext := filepath.Ext(absFile)
	dst, err := createUnique(dir, strings.TrimSuffix(filepath.Base(absFile), ext), ext)
	if err != nil {
		return ManifestEntry{}, err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		util.TryRemove(dst.Name())
		return ManifestEntry{}, errors.Wrap(err, "error copying video")
	}
	return ManifestEntry{Filename: filepath.Base(dst.Name())}, nil
}
