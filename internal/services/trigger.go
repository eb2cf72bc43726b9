package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/logger"
)

// PipelineTrigger notifies the generation pipeline that a queued job is
// ready to be claimed. Submission fires it and moves on; delivery retries
// and backoff are the trigger implementation's concern.
type PipelineTrigger interface {
	NotifyQueued(ctx context.Context, generationID uuid.UUID) error
}

// LogTrigger is a PipelineTrigger that only logs the notification. It is
// the default wiring for deployments where workers poll for queued jobs.
type LogTrigger struct{}

// NewLogTrigger creates a logging pipeline trigger
func NewLogTrigger() *LogTrigger {
	return &LogTrigger{}
}

// NotifyQueued logs that a job is ready for pickup
func (t *LogTrigger) NotifyQueued(_ context.Context, generationID uuid.UUID) error {
	logger.InfoWithFields("Generation queued", map[string]interface{}{
		"generation_id": generationID.String(),
	})
	return nil
}

// ChannelTrigger delivers queued job IDs on a channel, for in-process
// workers and tests. Notifications are dropped when the channel is full so
// submission never blocks on a slow consumer.
type ChannelTrigger struct {
	ch chan uuid.UUID
}

// NewChannelTrigger creates a channel trigger with the given buffer size
func NewChannelTrigger(buffer int) *ChannelTrigger {
	return &ChannelTrigger{ch: make(chan uuid.UUID, buffer)}
}

// Queued returns the channel carrying queued generation IDs
func (t *ChannelTrigger) Queued() <-chan uuid.UUID {
	return t.ch
}

// NotifyQueued delivers the ID without blocking
func (t *ChannelTrigger) NotifyQueued(_ context.Context, generationID uuid.UUID) error {
	select {
	case t.ch <- generationID:
	default:
		logger.WarnWithFields("Pipeline trigger buffer full, dropping notification", map[string]interface{}{
			"generation_id": generationID.String(),
		})
	}
	return nil
}
