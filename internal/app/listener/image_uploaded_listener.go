/*
 * @Description: 이미지 업로드 이벤트 리스너
 * @Author: memorymap
 * @Date: 2026-03-08 12:38:14
 * @LastEditTime: 2026-05-18 16:03:51
 * @LastEditors: memorymap
 */
package listener

import (
	"context"
	"log"

	"github.com/memorymap/memorymap-app/internal/pkg/event"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// ListWarmer is satisfied by image.ImageService.
type ListWarmer interface {
	List(ctx context.Context) ([]*model.ImageRecord, error)
}

// ImageUploadedListener reloads the cached image list after every upload so the next
// map request does not pay for the query.
type ImageUploadedListener struct {
	warmer ListWarmer
}

func NewImageUploadedListener(eventBus *event.EventBus, warmer ListWarmer) *ImageUploadedListener {
	l := &ImageUploadedListener{warmer: warmer}
	eventBus.Subscribe(event.ImageUploaded, l.handleImageUploaded)
	return l
}

func (l *ImageUploadedListener) handleImageUploaded(payload interface{}) {
	record, ok := payload.(*model.ImageRecord)
	if !ok {
		log.Printf("[ImageUploadedListener] unexpected payload type %T", payload)
		return
	}
	log.Printf("[ImageUploadedListener] image %d (%s) stored, warming list cache", record.ID, record.ImageName)

	images, err := l.warmer.List(context.Background())
	if err != nil {
		log.Printf("[ImageUploadedListener] ⚠️ warming list cache failed: %v", err)
		return
	}
	log.Printf("[ImageUploadedListener] list cache holds %d images", len(images))
}
