/*
 * @Description: 업로드 세션 관리자
 * @Author: memorymap
 * @Date: 2026-05-21 09:50:47
 * @LastEditTime: 2026-08-18 11:48:43
 * @LastEditors: memorymap
 */

// Package upload runs the per-file upload flow: metadata extraction, format normalization,
// manual metadata entry and submission, as an explicit state machine per session.
package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memorymap/memorymap-app/pkg/config"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	"github.com/memorymap/memorymap-app/pkg/service/geocode"
	"github.com/memorymap/memorymap-app/pkg/service/metadata"
)

// FormatNormalizer is satisfied by *format.Normalizer.
type FormatNormalizer interface {
	NeedsConversion(file *model.UploadFile) bool
	ContentType(file *model.UploadFile) string
	Normalize(ctx context.Context, file *model.UploadFile) (*model.UploadFile, bool, error)
}

// Submitter is the backend the finished draft is sent to. Satisfied by image.ImageService.
type Submitter interface {
	Upload(ctx context.Context, file *model.UploadFile, draft model.ImageDraft) (*model.UploadResult, error)
}

type Options struct {
	PreviewDir  string
	MaxFileSize int64
	SessionTTL  time.Duration
	CloseDelay  time.Duration
}

// OptionsFromConfig reads the [Upload] section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PreviewDir:  filepath.Join(os.TempDir(), "memorymap-previews"),
		MaxFileSize: int64(cfg.GetInt(config.KeyUploadMaxSizeMB)) << 20,
		SessionTTL:  time.Duration(cfg.GetInt(config.KeyUploadSessionTTLMinutes)) * time.Minute,
		CloseDelay:  constant.DoneCloseDelay,
	}
}

type Manager struct {
	extractor  metadata.Extractor
	normalizer FormatNormalizer
	resolver   geocode.LocationResolver
	submitter  Submitter
	opts       Options

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager(extractor metadata.Extractor, normalizer FormatNormalizer, resolver geocode.LocationResolver, submitter Submitter, opts Options) (*Manager, error) {
	if opts.PreviewDir == "" {
		opts.PreviewDir = filepath.Join(os.TempDir(), "memorymap-previews")
	}
	if err := os.MkdirAll(opts.PreviewDir, 0755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = constant.DoneCloseDelay
	}
	return &Manager{
		extractor:  extractor,
		normalizer: normalizer,
		resolver:   resolver,
		submitter:  submitter,
		opts:       opts,
		sessions:   make(map[string]*Session),
		now:        time.Now,
	}, nil
}

func (m *Manager) checkFile(file *model.UploadFile) error {
	if file == nil {
		return constant.ErrNoFile
	}
	if file.Size() == 0 {
		return constant.ErrEmptyFile
	}
	if m.opts.MaxFileSize > 0 && file.Size() > m.opts.MaxFileSize {
		return fmt.Errorf("%w: file exceeds %d MB", constant.ErrValidation, m.opts.MaxFileSize>>20)
	}
	return nil
}

// Create opens a session and processes file in it.
func (m *Manager) Create(ctx context.Context, file *model.UploadFile) (*model.UploadSessionView, error) {
	if err := m.checkFile(file); err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), m.now())
	s.mu.Lock()
	defer s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	log.Printf("[Upload] session %s opened for '%s' (%d bytes)", s.id, file.Name, file.Size())

	m.process(ctx, s, file)
	return s.view(), nil
}

// Select replaces the session's file and reruns processing from scratch.
func (m *Manager) Select(ctx context.Context, id string, file *model.UploadFile) (*model.UploadSessionView, error) {
	if err := m.checkFile(file); err != nil {
		return nil, err
	}
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if s.state == model.StateSubmitting || s.state == model.StateDone {
		return nil, fmt.Errorf("%w: cannot replace the file while %s", constant.ErrInvalidState, s.state)
	}
	m.process(ctx, s, file)
	return s.view(), nil
}

// process runs Detecting through ReadyToSubmit or AwaitingManualMetadata. s.mu must be held.
func (m *Manager) process(ctx context.Context, s *Session, file *model.UploadFile) {
	s.reset()
	s.updatedAt = m.now()

	// 1. container check
	s.transition(model.StateDetecting, constant.StatusProcessing)
	needsConversion := m.normalizer.NeedsConversion(file)

	// 2. metadata, extracted from the original bytes before any conversion
	s.transition(model.StateExtractingMetadata, "")
	meta, err := m.extractor.Extract(ctx, file)
	if err != nil {
		log.Printf("[Upload] session %s: metadata extraction failed: %v", s.id, err)
		meta = nil
	}
	m.applyMetadata(ctx, s, meta)

	// 3. displayable file
	displayable := file
	if needsConversion {
		s.transition(model.StateConvertingFormat, constant.StatusConverting)
		out, converted, err := m.normalizer.Normalize(ctx, file)
		if err != nil {
			log.Printf("[Upload] session %s: %v", s.id, err)
			m.fail(s, constant.StatusErrorPrefix+constant.StatusConvertFailed)
			return
		}
		displayable = out
		s.converted = converted
		if s.hasMetadata {
			s.status = constant.StatusConverted
		} else {
			s.status = constant.StatusMetadataMissing
		}
	} else if ct := m.normalizer.ContentType(file); ct != file.ContentType {
		typed := *file
		typed.ContentType = ct
		displayable = &typed
	}

	// 4. preview
	if err := s.writePreview(m.opts.PreviewDir, displayable); err != nil {
		log.Printf("[Upload] session %s: %v", s.id, err)
		m.fail(s, constant.StatusErrorPrefix+err.Error())
		return
	}
	s.file = displayable

	if s.hasMetadata {
		s.transition(model.StateReadyToSubmit, "")
	} else {
		s.transition(model.StateAwaitingManualMetadata, "")
	}
	s.updatedAt = m.now()
}

func (m *Manager) applyMetadata(ctx context.Context, s *Session, meta *model.ExtractedMetadata) {
	s.metadata = meta
	if meta != nil {
		if meta.HasCoordinates() {
			lat, lon := *meta.Latitude, *meta.Longitude
			s.draft.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
			s.draft.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
			s.draft.Location = m.resolver.ReverseGeocode(ctx, lat, lon)
			s.hasMetadata = true
		}
		if date := meta.CaptureTime(); date != "" {
			s.draft.Date = date
			s.hasMetadata = true
		}
	}
	if s.hasMetadata {
		s.status = constant.StatusMetadataExtracted
	} else {
		s.status = constant.StatusMetadataMissing
	}
}

func (m *Manager) fail(s *Session, status string) {
	s.releasePreview()
	s.file = nil
	s.transition(model.StateFailed, status)
	s.uploadStatus = constant.StatusProcessFailed
	s.updatedAt = m.now()
}

// lock returns the session with s.mu held.
func (m *Manager) lock(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: upload session %s", constant.ErrNotFound, id)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: upload session %s", constant.ErrNotFound, id)
	}
	return s, nil
}

func (m *Manager) Get(id string) (*model.UploadSessionView, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.view(), nil
}

// Preview returns the temp file holding the displayable image and its content type.
func (m *Manager) Preview(id string) (string, string, error) {
	s, err := m.lock(id)
	if err != nil {
		return "", "", err
	}
	defer s.mu.Unlock()
	if s.previewPath == "" || s.file == nil {
		return "", "", fmt.Errorf("%w: no preview for session %s", constant.ErrNotFound, id)
	}
	return s.previewPath, s.file.ContentType, nil
}

func editable(state model.UploadState) bool {
	return state == model.StateAwaitingManualMetadata || state == model.StateReadyToSubmit
}

func (m *Manager) Rename(id, name string) (*model.UploadSessionView, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if !editable(s.state) {
		return nil, fmt.Errorf("%w: cannot rename while %s", constant.ErrInvalidState, s.state)
	}
	s.draft.Name = strings.TrimSpace(name)
	s.updatedAt = m.now()
	return s.view(), nil
}

// SearchPlaces runs a place search and remembers the results so one of them can be picked.
func (m *Manager) SearchPlaces(ctx context.Context, id, query string) ([]model.Place, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if !editable(s.state) {
		return nil, fmt.Errorf("%w: cannot search places while %s", constant.ErrInvalidState, s.state)
	}

	places, err := m.resolver.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.places = places
	s.updatedAt = m.now()
	return places, nil
}

// SubmitManualMetadata sets the date and a place picked from the last search.
// Incomplete input or an unknown place leaves the session unchanged.
func (m *Manager) SubmitManualMetadata(id string, req model.ManualMetadataRequest) (*model.UploadSessionView, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if !editable(s.state) {
		return nil, fmt.Errorf("%w: cannot edit metadata while %s", constant.ErrInvalidState, s.state)
	}

	date, placeID := strings.TrimSpace(req.Date), strings.TrimSpace(req.PlaceID)
	if date == "" || placeID == "" {
		return nil, fmt.Errorf("%w: %s", constant.ErrValidation, constant.StatusManualRequired)
	}
	place, ok := s.findPlace(placeID)
	if !ok {
		return nil, fmt.Errorf("%w: place %s is not a result of the last search", constant.ErrValidation, placeID)
	}

	s.draft.Date = date
	s.draft.Location = place.DisplayName
	s.draft.Latitude = place.Lat
	s.draft.Longitude = place.Lon
	s.hasMetadata = true
	s.places = nil
	s.transition(model.StateReadyToSubmit, constant.StatusMetadataEdited)
	s.updatedAt = m.now()
	return s.view(), nil
}

// SkipManualMetadata submits without date or place, like dismissing the entry form.
func (m *Manager) SkipManualMetadata(id string) (*model.UploadSessionView, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if s.state != model.StateAwaitingManualMetadata {
		return nil, fmt.Errorf("%w: nothing to skip while %s", constant.ErrInvalidState, s.state)
	}
	s.places = nil
	s.transition(model.StateReadyToSubmit, "")
	s.updatedAt = m.now()
	return s.view(), nil
}

// Submit sends the draft to the backend. The session lock is released during the call;
// if the session is closed meanwhile the result is discarded.
func (m *Manager) Submit(ctx context.Context, id string) (*model.UploadSessionView, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	if s.state != model.StateReadyToSubmit {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit while %s", constant.ErrInvalidState, state)
	}
	s.transition(model.StateSubmitting, "")
	s.uploadStatus = constant.StatusUploading
	s.updatedAt = m.now()
	file, d := s.file, s.draft
	s.mu.Unlock()

	res, uploadErr := m.submitter.Upload(ctx, file, model.ImageDraft{
		Name:      d.Name,
		Date:      d.Date,
		Location:  d.Location,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Printf("[Upload] session %s closed during submit, result ignored", id)
		return nil, fmt.Errorf("%w: upload session %s", constant.ErrNotFound, id)
	}
	s.updatedAt = m.now()

	// The file and draft stay so the user can retry without redoing manual entry.
	if uploadErr != nil {
		s.transition(model.StateReadyToSubmit, constant.StatusUploadFailed)
		s.uploadStatus = constant.StatusUploadFailedPrefix + uploadErr.Error()
		return s.view(), uploadErr
	}

	s.imageURL = res.ImageURL
	s.transition(model.StateDone, "")
	s.uploadStatus = constant.StatusUploadDone
	s.closeTimer = time.AfterFunc(m.opts.CloseDelay, func() {
		if err := m.Close(id); err == nil {
			log.Printf("[Upload] session %s closed after upload", id)
		}
	})
	return s.view(), nil
}

// Close discards the session from any state and removes its preview.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: upload session %s", constant.ErrNotFound, id)
	}

	s.mu.Lock()
	s.close()
	s.mu.Unlock()
	return nil
}

// Sweep closes sessions idle for longer than the TTL and returns how many were closed.
// Sessions busy with a phase are skipped.
func (m *Manager) Sweep() int {
	if m.opts.SessionTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.SessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	swept := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.state != model.StateSubmitting && s.updatedAt.Before(cutoff) {
			s.close()
			delete(m.sessions, id)
			swept++
		}
		s.mu.Unlock()
	}
	return swept
}

// PurgeOrphanPreviews removes preview files no open session owns and that were last
// written more than olderThan ago. These are left behind when the process stops mid-session.
func (m *Manager) PurgeOrphanPreviews(olderThan time.Duration) (int, error) {
	live := make(map[string]struct{})
	m.mu.RLock()
	for _, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.previewPath != "" {
			live[s.previewPath] = struct{}{}
		}
		s.mu.Unlock()
	}
	m.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(m.opts.PreviewDir, "preview-*"))
	if err != nil {
		return 0, err
	}
	cutoff := m.now().Add(-olderThan)
	purged := 0
	for _, path := range matches {
		if _, ok := live[path]; ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("[Upload] ⚠️ could not remove orphan preview %s: %v", path, err)
			continue
		}
		purged++
	}
	return purged, nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		s.close()
		s.mu.Unlock()
	}
}
