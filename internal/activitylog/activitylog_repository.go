package activitylog

import (
	"encoding/json"
	"fmt"

	"custodian/internal/repository"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ActivityLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ActivityLogRepository {
	return &ActivityLogRepository{repository: r}
}

func (r *ActivityLogRepository) PersistLog(entry models.ActivityLog, payload interface{}) error {
	dataJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log data: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("activity_logs").
		Rows(goqu.Record{
			"resource_id":   entry.ResourceID,
			"resource_type": entry.ResourceType,
			"action":        entry.Action,
			"data":          dataJSON,
			"changed_by":    entry.ChangedBy,
		})

	if _, err = query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

func (r *ActivityLogRepository) GetResourceLog(id int, resourceType string) ([]models.ActivityLog, error) {
	query := r.repository.GoquDBWrapper.
		From("activity_logs").
		Select(
			"id",
			"resource_id",
			"resource_type",
			"action",
			goqu.I("data").As("data"),
			"changed_by",
			"created_at",
		).
		Where(goqu.Ex{
			"resource_id":   id,
			"resource_type": resourceType,
		}).
		Order(goqu.I("created_at").Desc())

	var entries []models.ActivityLog
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range entries {
		entries[i].LoadFromDB()
	}

	return entries, nil
}
