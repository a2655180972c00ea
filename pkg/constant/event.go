package constant

import "github.com/memorymap/memorymap-app/internal/pkg/event"

// EventTopic is re-exported so services can publish without importing internal packages.
type EventTopic = event.Topic

// EventImageUploaded carries the persisted *model.ImageRecord.
const EventImageUploaded EventTopic = event.ImageUploaded
