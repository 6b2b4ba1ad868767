package compressor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	"github.com/apcaballes87/cake-genie/internal/entity"
	"github.com/apcaballes87/cake-genie/internal/pkg/codec"
)

// Compressor adapts an uploaded photo to bounded dimensions and a byte
// budget. Compression is best-effort: any failure yields the original bytes
// unchanged so an upload is never blocked on it.
type Compressor interface {
	Compress(src *entity.SourceFile) *entity.CompressionResult
}

type imageCompressor struct {
	cfg config.CompressionConfig
}

func NewCompressor(cfg config.CompressionConfig) Compressor {
	return &imageCompressor{cfg: cfg}
}

func (c *imageCompressor) Compress(src *entity.SourceFile) *entity.CompressionResult {
	// Re-encoding a GIF would keep only one frame, so animated uploads
	// pass through untouched.
	if src.MediaType == "image/gif" {
		return passthrough(src, "")
	}

	width, height, err := codec.Probe(src.Data)
	if err != nil {
		logrus.Warnf("Compression skipped, cannot probe dimensions: %v", err)
		return passthrough(src, err.Error())
	}

	longEdge := width
	if height > longEdge {
		longEdge = height
	}
	if longEdge <= c.cfg.MaxLongEdge && src.Size <= c.cfg.MaxBytes {
		return passthrough(src, "")
	}

	img, _, err := codec.Decode(src.Data, src.MediaType)
	if err != nil {
		logrus.Warnf("Compression skipped, decode failed: %v", err)
		return passthrough(src, err.Error())
	}

	targetW, targetH := targetDimensions(width, height, c.cfg.MaxLongEdge)
	if targetW != width || targetH != height {
		img = imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}

	data, err := c.encode(img, targetW, targetH)
	if err != nil {
		logrus.Warnf("Compression skipped, encode failed: %v", err)
		return passthrough(src, err.Error())
	}

	result := &entity.CompressionResult{
		Data:           data,
		Ext:            ".jpg",
		CompressedSize: int64(len(data)),
		OriginalSize:   src.Size,
		Ratio:          float64(src.Size) / float64(len(data)),
		Width:          targetW,
		Height:         targetH,
		OriginalWidth:  width,
		OriginalHeight: height,
	}
	logrus.WithFields(logrus.Fields{
		"original_size":   result.OriginalSize,
		"compressed_size": result.CompressedSize,
		"ratio":           result.Ratio,
		"dimensions":      [2]int{targetW, targetH},
	}).Info("Image compressed")
	return result
}

// encode runs the descending-quality loop: accept the first attempt that
// fits the byte budget, or whatever the quality floor produces. JPEG has no
// alpha channel, so the bitmap is flattened over white first.
func (c *imageCompressor) encode(img image.Image, w, h int) ([]byte, error) {
	flat := imaging.Overlay(imaging.New(w, h, color.White), img, image.Pt(0, 0), 1.0)

	quality := c.cfg.QualityStart
	var buf bytes.Buffer
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		buf.Reset()
		err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: int(math.Round(quality * 100))})
		if err != nil {
			return nil, err
		}
		if int64(buf.Len()) <= c.cfg.MaxBytes || quality <= c.cfg.QualityFloor+1e-9 {
			break
		}
		quality -= c.cfg.QualityStep
		if quality < c.cfg.QualityFloor {
			quality = c.cfg.QualityFloor
		}
	}
	return buf.Bytes(), nil
}

func targetDimensions(width, height, maxLongEdge int) (int, int) {
	longEdge := width
	if height > longEdge {
		longEdge = height
	}
	scale := 1.0
	if longEdge > maxLongEdge {
		scale = float64(maxLongEdge) / float64(longEdge)
	}
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func passthrough(src *entity.SourceFile, errMsg string) *entity.CompressionResult {
	return &entity.CompressionResult{
		Data:           src.Data,
		Ext:            extensionFor(src),
		CompressedSize: src.Size,
		OriginalSize:   src.Size,
		Ratio:          1,
		Skipped:        true,
		Err:            errMsg,
	}
}

func extensionFor(src *entity.SourceFile) string {
	if ext := filepath.Ext(src.Filename); ext != "" {
		return ext
	}
	switch src.MediaType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
