/*
 * @Description: 업로드 세션 모델
 * @Author: memorymap
 * @Date: 2026-05-14 21:25:23
 * @LastEditTime: 2026-06-30 10:10:21
 * @LastEditors: memorymap
 */
package model

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// UploadFile is an in-memory image selected for upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *UploadFile) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// Reader returns a fresh reader over the file content.
func (f *UploadFile) Reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}

// Ext returns the lower-case extension including the dot.
func (f *UploadFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// ReadUploadFile buffers r into an UploadFile.
func ReadUploadFile(name, contentType string, r io.Reader) (*UploadFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &UploadFile{Name: name, ContentType: contentType, Data: data}, nil
}

// UploadState is a phase of an upload session.
type UploadState string

const (
	StateIdle                   UploadState = "idle"
	StateDetecting              UploadState = "detecting"
	StateExtractingMetadata     UploadState = "extracting_metadata"
	StateConvertingFormat       UploadState = "converting_format"
	StateAwaitingManualMetadata UploadState = "awaiting_manual_metadata"
	StateReadyToSubmit          UploadState = "ready_to_submit"
	StateSubmitting             UploadState = "submitting"
	StateDone                   UploadState = "done"
	StateFailed                 UploadState = "failed"
)

// UploadDraft is the mutable form state of a session.
type UploadDraft struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Location  string `json:"location"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// UploadSessionView is the client-facing snapshot of a session.
// Status follows file processing and metadata; UploadStatus follows submission.
type UploadSessionView struct {
	ID           string             `json:"id"`
	State        UploadState        `json:"state"`
	Status       string             `json:"status"`
	UploadStatus string             `json:"upload_status"`
	Draft        UploadDraft        `json:"draft"`
	FileName     string             `json:"file_name"`
	FileType     string             `json:"file_type"`
	FileSize     int64              `json:"file_size"`
	HasMetadata  bool               `json:"has_metadata"`
	Converted    bool               `json:"converted"`
	PreviewURL   string             `json:"preview_url,omitempty"`
	ImageURL     string             `json:"image_url,omitempty"`
	Metadata     *ExtractedMetadata `json:"metadata,omitempty"`
	SearchResult []Place            `json:"search_result,omitempty"`
}

// ManualMetadataRequest is the body of PUT /api/sessions/:id/metadata.
type ManualMetadataRequest struct {
	Date    string `json:"date"`
	PlaceID string `json:"placeId"`
}

// RenameRequest is the body of PUT /api/sessions/:id/name.
type RenameRequest struct {
	Name string `json:"name"`
}
