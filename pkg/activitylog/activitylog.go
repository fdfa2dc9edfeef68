package activitylog

import (
	internal "custodian/internal/activitylog"
	"custodian/pkg/models"

	"go.uber.org/zap"
)

// ActivityLog is the facade handlers call after a successful transition.
// Logging never fails the request; a persistence error is only logged.
type ActivityLog struct {
	repository *internal.ActivityLogRepository
	log        *zap.Logger
}

type Auditable interface {
	CreateLogView() models.ActivityLog
}

func NewActivityLog(repository *internal.ActivityLogRepository, log *zap.Logger) *ActivityLog {
	return &ActivityLog{
		repository: repository,
		log:        log,
	}
}

func (a *ActivityLog) Log(action string, changedBy *int, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.ChangedBy = changedBy

	if err := a.repository.PersistLog(entry, data); err != nil {
		a.log.Warn("unable to create activity log entry",
			zap.Int("resource_id", entry.ResourceID),
			zap.String("resource_type", entry.ResourceType),
			zap.Error(err))
	}
}

// ResourceLog lists the recorded activity for one resource, newest first.
func (a *ActivityLog) ResourceLog(id int, resourceType string) ([]models.ActivityLog, error) {
	return a.repository.GetResourceLog(id, resourceType)
}
