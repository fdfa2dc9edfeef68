package models

import (
	"encoding/json"
	"time"
)

type ActivityLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"resource_id" db:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type"`
	Action       string                 `json:"action" db:"action"` // e.g. assign, handover, return, unregister
	DataRaw      string                 `json:"-" db:"data"`
	Data         map[string]interface{} `json:"data" db:"-"`
	ChangedBy    *int                   `json:"changed_by,omitempty" db:"changed_by"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

func (a *ActivityLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
