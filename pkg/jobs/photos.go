package jobs

import (
	"time"

	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// PhotoCleanup clears proof-of-delivery photo references once a delivery is
// older than the retention window. Only the reference is touched; the file
// itself lives with the storage provider.
type PhotoCleanup struct {
	deliveries    store.DeliveriesStore
	retentionDays int
	logger        *zap.Logger
}

// NewPhotoCleanup creates the photo cleanup job.
func NewPhotoCleanup(deliveries store.DeliveriesStore, retentionDays int, logger *zap.Logger) *PhotoCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoCleanup{
		deliveries:    deliveries,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

func (j *PhotoCleanup) Name() string { return "photo-cleanup" }

func (j *PhotoCleanup) Run() error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)
	stale, err := j.deliveries.ListStalePhotos(cutoff)
	if err != nil {
		return err
	}

	for _, delivery := range stale {
		if err := j.deliveries.ClearPhoto(delivery.ID); err != nil {
			j.logger.Warn("failed to clear stale photo",
				zap.String("delivery_id", delivery.ID),
				zap.Error(err),
			)
			audit.Log(audit.JobEvent{Job: j.Name(), RecordID: delivery.ID, ErrorMessage: err.Error()})
			continue
		}
		audit.Log(audit.JobEvent{Job: j.Name(), RecordID: delivery.ID, Success: true})
	}
	return nil
}
