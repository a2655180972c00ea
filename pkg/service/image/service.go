/*
 * @Description: 이미지 저장 및 목록 서비스
 * @Author: memorymap
 * @Date: 2026-03-04 03:39:25
 * @LastEditTime: 2026-05-21 10:17:45
 * @LastEditors: memorymap
 */

// Package image stores uploaded images and their metadata rows, and lists them back.
package image

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/memorymap/memorymap-app/internal/infra/storage"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	"github.com/memorymap/memorymap-app/pkg/domain/repository"
	"github.com/memorymap/memorymap-app/pkg/service/utility"
)

const (
	listCacheKey = "images:list"
	listCacheTTL = 10 * time.Minute
)

// Publisher is satisfied by *event.EventBus.
type Publisher interface {
	Publish(topic constant.EventTopic, payload interface{})
}

// ImageService is the backend side of the upload flow.
type ImageService interface {
	// Upload stores the file, inserts its row and returns the public URL.
	Upload(ctx context.Context, file *model.UploadFile, draft model.ImageDraft) (*model.UploadResult, error)
	// List returns every record ordered by date_time descending.
	List(ctx context.Context) ([]*model.ImageRecord, error)
	Get(ctx context.Context, id int64) (*model.ImageRecord, error)
	// InvalidateList drops the cached record list.
	InvalidateList(ctx context.Context)
}

type imageService struct {
	repo      repository.ImageRepository
	storage   storage.IStorageProvider
	cache     utility.CacheService
	publisher Publisher
	policy    *bluemonday.Policy
	now       func() time.Time
}

// NewImageService wires the service. cache and publisher may be nil.
func NewImageService(repo repository.ImageRepository, provider storage.IStorageProvider, cache utility.CacheService, publisher Publisher) ImageService {
	return &imageService{
		repo:      repo,
		storage:   provider,
		cache:     cache,
		publisher: publisher,
		policy:    bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// ObjectKey builds the storage key "images/<unix-ms>_<name>".
func ObjectKey(now time.Time, originalName string) string {
	return fmt.Sprintf("%s%d_%s", constant.StorageKeyPrefix, now.UnixMilli(), sanitizeObjectName(originalName))
}

// sanitizeObjectName keeps the name a single path segment.
func sanitizeObjectName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "image"
	}
	return name
}

func (s *imageService) Upload(ctx context.Context, file *model.UploadFile, draft model.ImageDraft) (*model.UploadResult, error) {
	if file == nil {
		return nil, constant.ErrNoFile
	}
	if file.Size() == 0 {
		return nil, constant.ErrEmptyFile
	}

	now := s.now()
	key := ObjectKey(now, file.Name)
	uploaded, err := s.storage.Upload(ctx, key, file.Reader(), file.Size(), file.ContentType)
	if err != nil {
		log.Printf("[Image] storage upload of '%s' failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", constant.ErrStorage, err)
	}
	imageURL := uploaded.PublicURL
	if imageURL == "" {
		imageURL = s.storage.PublicURL(key)
	}
	log.Printf("[Image] stored '%s' at %s", key, imageURL)

	record := s.buildRecord(file, draft, imageURL, now)
	if err := s.repo.Create(ctx, record); err != nil {
		log.Printf("[Image] insert for '%s' failed: %v", key, err)
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Printf("[Image] ⚠️ could not remove orphan object '%s': %v", key, delErr)
		}
		return nil, err
	}

	s.InvalidateList(ctx)
	if s.publisher != nil {
		s.publisher.Publish(constant.EventImageUploaded, record)
	}

	return &model.UploadResult{
		Success:  true,
		ImageURL: imageURL,
		Message:  constant.MessageUploadSuccess,
	}, nil
}

func (s *imageService) buildRecord(file *model.UploadFile, draft model.ImageDraft, imageURL string, now time.Time) *model.ImageRecord {
	name := s.clean(draft.Name)
	if name == "" {
		name = file.Name
	}
	lat, lon := NormalizeCoordinates(draft.Latitude, draft.Longitude)
	return &model.ImageRecord{
		ImageName:        name,
		ImageURL:         imageURL,
		OriginalFileName: file.Name,
		DateTime:         optional(strings.TrimSpace(draft.Date)),
		Location:         optional(s.clean(draft.Location)),
		Latitude:         optional(lat),
		Longitude:        optional(lon),
		FileSize:         file.Size(),
		FileType:         file.ContentType,
		CreatedAt:        now.UTC(),
		ImageUploadedAt:  now.UTC(),
	}
}

// clean strips markup from user text and keeps the literal characters.
func (s *imageService) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(value)))
}

// NormalizeCoordinates returns both values trimmed when they form a valid pair, otherwise two empty strings.
func NormalizeCoordinates(latText, lonText string) (string, string) {
	latText, lonText = strings.TrimSpace(latText), strings.TrimSpace(lonText)
	lat, errLat := strconv.ParseFloat(latText, 64)
	lon, errLon := strconv.ParseFloat(lonText, 64)
	if errLat != nil || errLon != nil {
		return "", ""
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", ""
	}
	return latText, lonText
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *imageService) List(ctx context.Context) ([]*model.ImageRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, listCacheKey); err == nil && cached != "" {
			var records []*model.ImageRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.ImageRecord{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, string(data), listCacheTTL); err != nil {
				log.Printf("[Image] ⚠️ list cache write failed: %v", err)
			}
		}
	}
	return records, nil
}

func (s *imageService) Get(ctx context.Context, id int64) (*model.ImageRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *imageService) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		log.Printf("[Image] ⚠️ list cache invalidation failed: %v", err)
	}
}
