package u

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/dsoprea/go-exif/v3"
	"github.com/sirupsen/logrus"
)

// GetExifOrientation returns the EXIF orientation (1-8) of an encoded image, or 0 when there is none.
func GetExifOrientation(b []byte) (int, error) {
	rawExif, err := exif.SearchAndExtractExif(b)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return 0, nil
		}
		return 0, errors.New("exif: error reading possible exif data: " + err.Error())
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 0, errors.New("exif: error parsing exif data: " + err.Error())
	}

	for _, t := range tags {
		if t.TagName != "Orientation" {
			continue
		}

		var orientation uint16
		vals, ok := t.Value.([]uint16)
		if !ok || len(vals) <= 0 {
			orientation, ok = t.Value.(uint16)
			if !ok {
				return 0, errors.New("exif: error parsing orientation: parse error (not an int)")
			}
		} else {
			orientation = vals[0]
		}

		// Some devices write 0 to mean "no orientation"
		if orientation == 0 {
			return 0, nil
		}
		if orientation > 8 {
			return 0, fmt.Errorf("exif: orientation out of range: %d", orientation)
		}
		return int(orientation), nil
	}
	return 0, nil
}

// ApplyOrientation transforms src so it displays upright for the given EXIF orientation.
func ApplyOrientation(src image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(src)
	case 3:
		return imaging.Rotate180(src)
	case 4:
		return imaging.FlipV(src)
	case 5:
		return imaging.Transpose(src)
	case 6:
		return imaging.Rotate270(src)
	case 7:
		return imaging.Transverse(src)
	case 8:
		return imaging.Rotate90(src)
	default:
		return src
	}
}

// IdentifyAndApplyOrientation reads the orientation from the original bytes and corrects src. Unreadable
// EXIF data is treated as "no orientation".
func IdentifyAndApplyOrientation(origBytes []byte, src image.Image) image.Image {
	orientation, err := GetExifOrientation(origBytes)
	if err != nil {
		logrus.Warn("Non-fatal error reading exif headers: ", err.Error())
		return src
	}
	return ApplyOrientation(src, orientation)
}
