package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

func solidImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	return img
}

func TestDecodeKnownFormats(t *testing.T) {
	tests := []struct {
		name       string
		encode     func(*testing.T, image.Image) []byte
		mediaType  string
		wantFormat string
	}{
		{
			name: "jpeg",
			encode: func(t *testing.T, img image.Image) []byte {
				var buf bytes.Buffer
				require.NoError(t, jpeg.Encode(&buf, img, nil))
				return buf.Bytes()
			},
			mediaType:  "image/jpeg",
			wantFormat: "jpeg",
		},
		{
			name: "png",
			encode: func(t *testing.T, img image.Image) []byte {
				var buf bytes.Buffer
				require.NoError(t, png.Encode(&buf, img))
				return buf.Bytes()
			},
			mediaType:  "image/png",
			wantFormat: "png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.encode(t, solidImage(320, 240))

			img, format, err := Decode(data, tt.mediaType)

			require.NoError(t, err)
			require.NotNil(t, img)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, 320, img.Bounds().Dx())
			assert.Equal(t, 240, img.Bounds().Dy())
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte("this is not pixel data"), "image/jpeg")

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrDecodeFailure))
}

func TestProbe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(300, 150)))

	w, h, err := Probe(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)
}

func TestProbeRejectsGarbage(t *testing.T) {
	_, _, err := Probe([]byte("nope"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUnreadableImage))
}

func TestNormalizeOrientationWithoutExif(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(100, 50), nil))
	img, _, err := Decode(buf.Bytes(), "image/jpeg")
	require.NoError(t, err)

	// No EXIF block at all: the image must come back untouched.
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}
