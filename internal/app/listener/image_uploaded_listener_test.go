package listener

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/memorymap/memorymap-app/internal/pkg/event"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

type countingWarmer struct {
	calls atomic.Int32
}

func (w *countingWarmer) List(context.Context) ([]*model.ImageRecord, error) {
	w.calls.Add(1)
	return []*model.ImageRecord{{ID: 1}}, nil
}

func TestImageUploadedListener(t *testing.T) {
	bus := event.NewEventBus()
	defer bus.Shutdown()
	warmer := &countingWarmer{}
	NewImageUploadedListener(bus, warmer)

	bus.Publish(event.ImageUploaded, &model.ImageRecord{ID: 1, ImageName: "beach"})

	assert.Eventually(t, func() bool { return warmer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestImageUploadedListener_IgnoresBadPayload(t *testing.T) {
	warmer := &countingWarmer{}
	l := &ImageUploadedListener{warmer: warmer}

	l.handleImageUploaded("not a record")

	assert.Equal(t, int32(0), warmer.calls.Load())
}
