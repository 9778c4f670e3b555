package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/pkg/jobs"
)

type attachmentStore interface {
	Delete(filename string) error
}

// CleanupService removes applicant attachments after their owning record is
// deleted. Deletions run on the background queue so the API response does not
// wait on the filesystem.
type CleanupService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewCleanupService wires the queue to the attachment store and returns the
// service. Start/Stop are delegated to the underlying queue.
func NewCleanupService(store attachmentStore, cfg jobs.QueueConfig, logger *zap.Logger) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CleanupService{logger: logger}
	s.queue = jobs.NewQueue("attachment-cleanup", func(ctx context.Context, job jobs.Job) error {
		path, ok := job.Payload.(string)
		if !ok || path == "" {
			return nil
		}
		if err := store.Delete(path); err != nil {
			return fmt.Errorf("cleanup attachment %s: %w", path, err)
		}
		logger.Info("attachment removed", zap.String("path", path))
		return nil
	}, cfg)
	return s
}

// Start begins background processing.
func (s *CleanupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *CleanupService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules one attachment path for removal. Failures are logged, not
// surfaced; record deletion must not fail because cleanup could not be queued.
func (s *CleanupService) Enqueue(path string) {
	if path == "" {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "attachment-cleanup", Payload: path}); err != nil {
		s.logger.Warn("failed to enqueue attachment cleanup", zap.String("path", path), zap.Error(err))
	}
}
