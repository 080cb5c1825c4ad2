package u

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/t2bot/url-media-nodes/common"
)

const MaxDimension = 8192

func ValidateDimensions(width int, height int) error {
	if width < 0 || width > MaxDimension {
		return common.InvalidInput("width must be between 0 and %d (got %d)", MaxDimension, width)
	}
	if height < 0 || height > MaxDimension {
		return common.InvalidInput("height must be between 0 and %d (got %d)", MaxDimension, height)
	}
	return nil
}

// TargetDimensions computes the output size. A missing side (0) keeps the source aspect ratio; when both
// are missing the source size is kept.
func TargetDimensions(srcWidth int, srcHeight int, width int, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	if width > 0 {
		return width, atLeastOne(math.Round(float64(srcHeight) * float64(width) / float64(srcWidth)))
	}
	if height > 0 {
		return atLeastOne(math.Round(float64(srcWidth) * float64(height) / float64(srcHeight))), height
	}
	return srcWidth, srcHeight
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

func Resize(src image.Image, width int, height int) image.Image {
	b := src.Bounds()
	w, h := TargetDimensions(b.Dx(), b.Dy(), width, height)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	return imaging.Resize(src, w, h, imaging.Lanczos)
}
