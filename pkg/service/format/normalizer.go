/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-06 14:59:07
 * @LastEditTime: 2026-06-04 11:01:05
 * @LastEditors: memorymap
 */
package format

import (
	"context"
	"fmt"
	"log"

	"github.com/memorymap/memorymap-app/pkg/config"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// Normalizer returns a displayable version of an upload.
type Normalizer struct {
	detector *Detector
	primary  Transcoder
	fallback Transcoder
}

func NewNormalizer(detector *Detector, primary, fallback Transcoder) *Normalizer {
	return &Normalizer{detector: detector, primary: primary, fallback: fallback}
}

// NewNormalizerFromConfig wires vips as primary and the canvas strategy
// (Go decoders, then ffmpeg) as fallback.
func NewNormalizerFromConfig(cfg *config.Config) *Normalizer {
	quality := cfg.GetInt(config.KeyTranscodeQuality)
	if quality <= 0 || quality > 100 {
		quality = constant.JPEGQuality
	}
	return NewNormalizer(
		NewDetector(),
		NewVipsCliTranscoder(cfg.GetString(config.KeyTranscodeVipsPath), quality),
		NewCanvasTranscoder(quality,
			GoImageDecoder{},
			NewFFmpegDecoder(cfg.GetString(config.KeyTranscodeFFmpegPath)),
		),
	)
}

// NeedsConversion reports whether Normalize would transcode file.
func (n *Normalizer) NeedsConversion(file *model.UploadFile) bool {
	return n.detector.IsNonStandardContainer(file)
}

// ContentType is the MIME type file should be stored and served with.
func (n *Normalizer) ContentType(file *model.UploadFile) string {
	return n.detector.ContentType(file)
}

// Normalize returns file unchanged when it is already displayable. Otherwise it tries the primary
// then the fallback strategy and validates each output. When both fail it returns
// constant.ErrTranscodeFailed and never the original file.
func (n *Normalizer) Normalize(ctx context.Context, file *model.UploadFile) (*model.UploadFile, bool, error) {
	if !n.NeedsConversion(file) {
		return file, false, nil
	}

	var lastErr error
	for _, t := range []Transcoder{n.primary, n.fallback} {
		if t == nil {
			continue
		}
		out, err := t.Transcode(ctx, file)
		if err != nil {
			log.Printf("[Normalizer] %s failed for '%s': %v", t.Name(), file.Name, err)
			lastErr = err
			continue
		}
		if !Validate(out) {
			log.Printf("[Normalizer] %s produced an invalid image for '%s'", t.Name(), file.Name)
			lastErr = fmt.Errorf("%s output failed validation", t.Name())
			continue
		}
		log.Printf("[Normalizer] '%s' converted with %s (%d bytes)", file.Name, t.Name(), out.Size())
		return out, true, nil
	}
	return nil, false, fmt.Errorf("%w: %v", constant.ErrTranscodeFailed, lastErr)
}
