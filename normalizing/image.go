package normalizing

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/normalizing/i"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/normalizing/u"
	"github.com/t2bot/url-media-nodes/util"
)

func NormalizeImage(ctx rcontext.RequestContext, res *fetching.FetchResult, c m.Constraints) (*m.Image, error) {
	if err := u.ValidateDimensions(c.Width, c.Height); err != nil {
		return nil, err
	}

	b, err := res.Bytes()
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(ctx, b, res.ContentTypeHint)
	if err != nil {
		return nil, err
	}

	img = u.IdentifyAndApplyOrientation(b, img)
	img = u.Resize(img, c.Width, c.Height)
	return ImageToTensor(img), nil
}

// DecodeImage picks a decoder from the sniffed content type, falling back to whatever image.Decode
// recognises.
func DecodeImage(ctx rcontext.RequestContext, b []byte, contentTypeHint string) (image.Image, error) {
	contentType := util.DetectMimeType(b, contentTypeHint)
	ctx.Log.Debug("Decoding image as ", contentType)

	var img image.Image
	var err error
	if d := i.GetDecoder(b, contentType); d != nil {
		img, err = d.Decode(b, ctx)
	} else {
		img, _, err = image.Decode(bytes.NewReader(b))
		if err != nil {
			err = errors.New("image: error decoding image: " + err.Error())
		}
	}
	if err != nil {
		return nil, &common.DecodeError{Kind: common.KindImage, Err: err}
	}
	return img, nil
}

// ImageToTensor drops alpha and scales to [0,1]. The result is [1,H,W,3] with a [1,H,W] mask of ones.
func ImageToTensor(img image.Image) *m.Image {
	rgba := imaging.Clone(img)
	w := rgba.Rect.Dx()
	h := rgba.Rect.Dy()

	t := m.NewTensor(1, h, w, 3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			o := (y*w + x) * 3
			t.Data[o] = float32(row[x*4]) / 255
			t.Data[o+1] = float32(row[x*4+1]) / 255
			t.Data[o+2] = float32(row[x*4+2]) / 255
		}
	}

	return &m.Image{
		Tensor: t,
		Mask:   m.NewTensor(1, h, w).Fill(1),
	}
}
