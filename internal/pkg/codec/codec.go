package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// Decode turns raw upload bytes into a bitmap ready for resizing.
//
// The primary path sniffs the encoding from the byte stream and, for JPEG,
// normalizes the image per its EXIF orientation tag so rotated phone photos
// come out upright. When sniffing fails the declared media type picks a
// decoder directly; that path applies no orientation correction.
func Decode(data []byte, mediaType string) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		if format == "jpeg" {
			img = normalizeOrientation(img, data)
		}
		return img, format, nil
	}

	img, format, fallbackErr := decodeByMediaType(data, mediaType)
	if fallbackErr == nil {
		return img, format, nil
	}

	return nil, "", fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
}

// Probe reads only the image header and reports pixel dimensions.
func Probe(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", entity.ErrUnreadableImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeByMediaType(data []byte, mediaType string) (image.Image, string, error) {
	r := bytes.NewReader(data)
	switch mediaType {
	case "image/jpeg", "image/jpg":
		img, err := jpeg.Decode(r)
		return img, "jpeg", err
	case "image/png":
		img, err := png.Decode(r)
		return img, "png", err
	case "image/gif":
		img, err := gif.Decode(r)
		return img, "gif", err
	default:
		return nil, "", fmt.Errorf("unsupported media type: %s", mediaType)
	}
}

// normalizeOrientation applies the EXIF orientation flag. Missing or
// unreadable metadata leaves the image untouched.
func normalizeOrientation(img image.Image, data []byte) image.Image {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		if orientation != 1 {
			logrus.Debugf("Unknown EXIF orientation %d, leaving image as-is", orientation)
		}
		return img
	}
}
