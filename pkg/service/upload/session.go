/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-30 06:21:44
 * @LastEditTime: 2026-06-22 20:51:19
 * @LastEditors: memorymap
 */
package upload

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// Session is one upload in progress. All fields are guarded by mu; phases run while holding it.
type Session struct {
	mu sync.Mutex

	id           string
	state        model.UploadState
	status       string
	uploadStatus string
	draft        model.UploadDraft

	file        *model.UploadFile
	metadata    *model.ExtractedMetadata
	hasMetadata bool
	converted   bool
	imageURL    string

	previewPath string
	places      []model.Place

	updatedAt  time.Time
	closed     bool
	closeTimer *time.Timer
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, state: model.StateIdle, updatedAt: now}
}

func (s *Session) ID() string {
	return s.id
}

// transition moves to state and sets the processing status text.
func (s *Session) transition(state model.UploadState, status string) {
	log.Printf("[Upload] session %s: %s -> %s", s.id, s.state, state)
	s.state = state
	if status != "" {
		s.status = status
	}
}

// reset clears everything a new file selection replaces.
func (s *Session) reset() {
	s.releasePreview()
	s.draft = model.UploadDraft{}
	s.file = nil
	s.metadata = nil
	s.hasMetadata = false
	s.converted = false
	s.imageURL = ""
	s.places = nil
	s.status = ""
	s.uploadStatus = ""
}

// writePreview replaces the preview temp file with file's bytes. The old file is removed first.
func (s *Session) writePreview(dir string, file *model.UploadFile) error {
	s.releasePreview()

	f, err := os.CreateTemp(dir, fmt.Sprintf("preview-%s-*%s", s.id, file.Ext()))
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	if _, err := f.Write(file.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("close preview file: %w", err)
	}
	s.previewPath = f.Name()
	return nil
}

func (s *Session) releasePreview() {
	if s.previewPath == "" {
		return
	}
	if err := os.Remove(s.previewPath); err != nil && !os.IsNotExist(err) {
		log.Printf("[Upload] ⚠️ could not remove preview %s: %v", s.previewPath, err)
	}
	s.previewPath = ""
}

// close releases every resource. In-flight submissions see closed and drop their result.
func (s *Session) close() {
	if s.closeTimer != nil {
		s.closeTimer.Stop()
		s.closeTimer = nil
	}
	s.releasePreview()
	s.file = nil
	s.places = nil
	s.closed = true
}

// findPlace returns the result of the last place search with the given token.
func (s *Session) findPlace(id string) (model.Place, bool) {
	for _, p := range s.places {
		if p.ID == id {
			return p, true
		}
	}
	return model.Place{}, false
}

func (s *Session) view() *model.UploadSessionView {
	v := &model.UploadSessionView{
		ID:           s.id,
		State:        s.state,
		Status:       s.status,
		UploadStatus: s.uploadStatus,
		Draft:        s.draft,
		HasMetadata:  s.hasMetadata,
		Converted:    s.converted,
		ImageURL:     s.imageURL,
		Metadata:     s.metadata,
	}
	if s.file != nil {
		v.FileName = s.file.Name
		v.FileType = s.file.ContentType
		v.FileSize = s.file.Size()
	}
	if s.previewPath != "" {
		v.PreviewURL = fmt.Sprintf("/api/sessions/%s/preview", s.id)
	}
	if len(s.places) > 0 {
		v.SearchResult = append([]model.Place(nil), s.places...)
	}
	return v
}
