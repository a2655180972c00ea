/*
 * @Description: 캔버스 방식 JPEG 변환
 * @Author: memorymap
 * @Date: 2026-04-22 00:14:02
 * @LastEditTime: 2026-06-27 03:10:03
 * @LastEditors: memorymap
 */
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// BitmapDecoder turns a file into an in-memory bitmap.
type BitmapDecoder interface {
	Decode(ctx context.Context, file *model.UploadFile) (image.Image, error)
}

// GoImageDecoder uses the registered Go decoders and honors the EXIF orientation.
type GoImageDecoder struct{}

func (GoImageDecoder) Decode(ctx context.Context, file *model.UploadFile) (image.Image, error) {
	return imaging.Decode(file.Reader(), imaging.AutoOrientation(true))
}

// FFmpegDecoder decodes the first frame to PNG with the ffmpeg CLI.
type FFmpegDecoder struct {
	ffmpegPath string
}

func NewFFmpegDecoder(configuredPath string) *FFmpegDecoder {
	return &FFmpegDecoder{ffmpegPath: locateBinary("FFmpegDecoder", configuredPath, "ffmpeg")}
}

func (d *FFmpegDecoder) Decode(ctx context.Context, file *model.UploadFile) (image.Image, error) {
	if d.ffmpegPath == "" {
		return nil, errUnavailable
	}
	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdin = file.Reader()
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, errBuf.String())
	}
	img, err := imaging.Decode(&outBuf)
	if err != nil {
		return nil, fmt.Errorf("decode ffmpeg output: %w", err)
	}
	return img, nil
}

// CanvasTranscoder decodes to a bitmap, paints it on an opaque white canvas at
// native size, then encodes JPEG.
type CanvasTranscoder struct {
	decoders []BitmapDecoder
	quality  int
}

func NewCanvasTranscoder(quality int, decoders ...BitmapDecoder) *CanvasTranscoder {
	return &CanvasTranscoder{decoders: decoders, quality: quality}
}

func (t *CanvasTranscoder) Name() string { return "canvas" }

func (t *CanvasTranscoder) Transcode(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error) {
	var errs []error
	for _, dec := range t.decoders {
		img, err := dec.Decode(ctx, file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		data, err := Flatten(img, t.quality)
		if err != nil {
			return nil, err
		}
		return &model.UploadFile{
			Name:        jpegName(file.Name),
			ContentType: "image/jpeg",
			Data:        data,
		}, nil
	}
	if len(errs) == 0 {
		errs = append(errs, errUnavailable)
	}
	log.Printf("[CanvasTranscoder] no decoder could read '%s'", file.Name)
	return nil, errors.Join(errs...)
}

// Flatten composites img over white and encodes JPEG at quality.
func Flatten(img image.Image, quality int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty bitmap")
	}
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	canvas = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// jpegName replaces the extension with .jpg.
func jpegName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
