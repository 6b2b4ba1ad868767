package compressor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apcaballes87/cake-genie/config"
	"github.com/apcaballes87/cake-genie/internal/entity"
)

func testConfig() config.CompressionConfig {
	return config.CompressionConfig{
		MaxLongEdge:  1800,
		MaxBytes:     1_200_000,
		QualityStart: 0.85,
		QualityFloor: 0.60,
		QualityStep:  0.10,
		MaxAttempts:  5,
	}
}

// gradientImage compresses well, noiseImage compresses badly.
func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func noiseImage(width, height int) *image.RGBA {
	rnd := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sourceFile(data []byte, filename, mediaType string) *entity.SourceFile {
	return &entity.SourceFile{
		Data:      data,
		Filename:  filename,
		MediaType: mediaType,
		Size:      int64(len(data)),
	}
}

func TestCompressSkipsImagesWithinBudget(t *testing.T) {
	c := NewCompressor(testConfig())

	data := encodeJPEG(t, gradientImage(800, 600), 85)
	src := sourceFile(data, "cake.jpg", "image/jpeg")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.True(t, result.Skipped)
	assert.Equal(t, 1.0, result.Ratio)
	assert.Equal(t, data, result.Data)
	assert.Equal(t, src.Size, result.CompressedSize)
	assert.Empty(t, result.Err)
}

func TestCompressSkipsGIF(t *testing.T) {
	c := NewCompressor(testConfig())

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, gradientImage(2400, 2400), nil))
	src := sourceFile(buf.Bytes(), "party.gif", "image/gif")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.True(t, result.Skipped)
	assert.Equal(t, 1.0, result.Ratio)
	assert.Equal(t, src.Data, result.Data)
	assert.Equal(t, ".gif", result.Ext)
}

func TestCompressDownscalesLargeImage(t *testing.T) {
	c := NewCompressor(testConfig())

	data := encodeJPEG(t, gradientImage(3000, 2000), 100)
	src := sourceFile(data, "big.jpg", "image/jpeg")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1800, result.Width)
	assert.Equal(t, 1200, result.Height)
	assert.Equal(t, 3000, result.OriginalWidth)
	assert.Equal(t, 2000, result.OriginalHeight)
	assert.Equal(t, ".jpg", result.Ext)
	assert.LessOrEqual(t, result.CompressedSize, int64(1_200_000))
	assert.Greater(t, result.Ratio, 1.0)
	assert.InDelta(t, float64(result.OriginalSize)/float64(result.CompressedSize), result.Ratio, 1e-9)
}

func TestCompressResizesOversizedPNG(t *testing.T) {
	c := NewCompressor(testConfig())

	data := encodePNG(t, gradientImage(2000, 1000))
	src := sourceFile(data, "tall.png", "image/png")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1800, result.Width)
	assert.Equal(t, 900, result.Height)

	// the output is a decodable JPEG of the target dimensions
	img, err := jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 1800, img.Bounds().Dx())
	assert.Equal(t, 900, img.Bounds().Dy())
}

func TestCompressAlwaysTerminatesOnIncompressibleInput(t *testing.T) {
	c := NewCompressor(testConfig())

	// Random noise stays over the byte budget even at the quality floor;
	// the loop must still finish and hand back a usable artifact.
	data := encodeJPEG(t, noiseImage(2400, 2000), 95)
	src := sourceFile(data, "noise.jpg", "image/jpeg")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1800, result.Width)
	assert.Equal(t, 1500, result.Height)
	assert.NotEmpty(t, result.Data)
	assert.InDelta(t, float64(result.OriginalSize)/float64(result.CompressedSize), result.Ratio, 1e-9)
}

func TestCompressFallsBackOnUndecodableData(t *testing.T) {
	c := NewCompressor(testConfig())

	data := []byte("definitely not an image")
	src := sourceFile(data, "broken.jpg", "image/jpeg")

	result := c.Compress(src)

	require.NotNil(t, result)
	assert.True(t, result.Skipped)
	assert.Equal(t, 1.0, result.Ratio)
	assert.Equal(t, data, result.Data)
	assert.NotEmpty(t, result.Err)
}

func TestTargetDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{
			name:  "landscape downscale",
			width: 3000, height: 2000,
			wantW: 1800, wantH: 1200,
		},
		{
			name:  "portrait downscale",
			width: 2000, height: 3000,
			wantW: 1200, wantH: 1800,
		},
		{
			name:  "exactly at limit",
			width: 1800, height: 1800,
			wantW: 1800, wantH: 1800,
		},
		{
			name:  "below limit untouched",
			width: 640, height: 480,
			wantW: 640, wantH: 480,
		},
		{
			name:  "extreme ratio floors at one pixel",
			width: 10000, height: 1,
			wantW: 1800, wantH: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := targetDimensions(tt.width, tt.height, 1800)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}
