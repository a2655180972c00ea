/*
 * @Description: vips CLI로 HEIC를 JPEG로 변환
 * @Author: memorymap
 * @Date: 2026-04-07 01:07:13
 * @LastEditTime: 2026-05-25 14:58:18
 * @LastEditors: memorymap
 */
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// Transcoder converts a file into a displayable JPEG.
type Transcoder interface {
	Name() string
	Transcode(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error)
}

var errUnavailable = errors.New("transcoder unavailable")

// VipsCliTranscoder pipes the file through the vips CLI, which reads HEIF through libheif.
type VipsCliTranscoder struct {
	vipsPath string
	quality  int
}

func NewVipsCliTranscoder(configuredPath string, quality int) *VipsCliTranscoder {
	return &VipsCliTranscoder{
		vipsPath: locateBinary("VipsTranscoder", configuredPath, "vips"),
		quality:  quality,
	}
}

func (t *VipsCliTranscoder) Name() string { return "vips" }

func (t *VipsCliTranscoder) Transcode(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error) {
	if t.vipsPath == "" {
		return nil, errUnavailable
	}

	// thumbnail_source with an oversized box and --size down keeps the native size and applies the EXIF orientation.
	outputFormat := ".jpg[Q=" + strconv.Itoa(t.quality) + ",strip]"
	cmd := exec.CommandContext(ctx, t.vipsPath, "thumbnail_source", "[descriptor=0]", outputFormat, "100000", "--size", "down")

	var outBuf, errBuf bytes.Buffer
	cmd.Stdin = file.Reader()
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		log.Printf("[VipsTranscoder] vips failed for '%s': %v, stderr: %s", file.Name, err, errBuf.String())
		return nil, fmt.Errorf("vips: %w: %s", err, errBuf.String())
	}
	return &model.UploadFile{
		Name:        jpegName(file.Name),
		ContentType: "image/jpeg",
		Data:        outBuf.Bytes(),
	}, nil
}
