package models

import (
	"time"

	"github.com/lib/pq"
)

type Asset struct {
	ID               int            `json:"id" db:"asset_id"`
	Code             string         `json:"asset_code" db:"asset_code"`
	Name             string         `json:"asset_name" db:"asset_name"`
	CategoryID       *int           `json:"category_id,omitempty" db:"category_id"`
	CategoryName     string         `json:"category_name,omitempty" db:"category_name"`
	Brand            string         `json:"brand,omitempty" db:"brand"`
	Model            string         `json:"model,omitempty" db:"model"`
	SerialNumber     string         `json:"serial_number,omitempty" db:"serial_number"`
	Type             string         `json:"type,omitempty" db:"type"`
	IPAddress        pq.StringArray `json:"ip_address,omitempty" db:"ip_address"`
	MACAddress       string         `json:"mac_address,omitempty" db:"mac_address"`
	MACWifi          string         `json:"mac_wifi,omitempty" db:"mac_wifi"`
	Hub              string         `json:"hub,omitempty" db:"hub"`
	VcsLanNo         string         `json:"vcs_lan_no,omitempty" db:"vcs_lan_no"`
	StartUseDate     *time.Time     `json:"start_use_date,omitempty" db:"start_use_date"`
	BelongsToDeptID  *int           `json:"belongs_to_dept_id,omitempty" db:"belongs_to_dept_id"`
	DepartmentName   string         `json:"department_name,omitempty" db:"department_name"`
	VendorID         *int           `json:"vendor_id,omitempty" db:"vendor_id"`
	VendorName       string         `json:"vendor_name,omitempty" db:"vendor_name"`
	LocationID       *string        `json:"location_id,omitempty" db:"location_id"`
	PurchaseDate     *time.Time     `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePrice    *float64       `json:"purchase_price,omitempty" db:"purchase_price"`
	WarrantyExpiry   *time.Time     `json:"warranty_expiry,omitempty" db:"warranty_expiry"`
	MaintenanceCycle *int           `json:"maintenance_cycle,omitempty" db:"maintenance_cycle"`
	StatusID         int            `json:"status_id" db:"status_id"`
	StatusName       string         `json:"status_name" db:"status_name"`
	UpgradeInfor     string         `json:"upgrade_infor,omitempty" db:"upgrade_infor"`
	Notes            string         `json:"notes,omitempty" db:"notes"`
	OS               string         `json:"os,omitempty" db:"os"`
	Office           string         `json:"office,omitempty" db:"office"`
	SoftwareUsed     pq.StringArray `json:"software_used,omitempty" db:"software_used"`
	Configuration    string         `json:"configuration,omitempty" db:"configuration"`
}

func (a *Asset) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// AssetState is the locked projection the lifecycle engine reads before
// evaluating transition preconditions.
type AssetState struct {
	ID         int    `db:"asset_id"`
	Code       string `db:"asset_code"`
	StatusID   int    `db:"status_id"`
	StatusName string `db:"status_name"`
}

// AssetSummary is the short listing shape used by search and worklists.
type AssetSummary struct {
	ID   int    `json:"asset_id" db:"asset_id"`
	Code string `json:"asset_code" db:"asset_code"`
	Name string `json:"asset_name" db:"asset_name"`
}

// AssetCounts aggregates assets per lifecycle state for the dashboard.
type AssetCounts struct {
	Total           int `json:"total" db:"total"`
	InUse           int `json:"in_use" db:"in_use"`
	Installing      int `json:"installing" db:"installing"`
	PendingDeletion int `json:"pending_deletion" db:"pending_deletion"`
}

type RepairRecord struct {
	ID                  int        `json:"repair_id" db:"repair_id"`
	AssetID             int        `json:"asset_id" db:"asset_id"`
	AssetCode           string     `json:"asset_code,omitempty" db:"asset_code"`
	AssetName           string     `json:"asset_name,omitempty" db:"asset_name"`
	RepairDate          time.Time  `json:"repair_date" db:"repair_date"`
	RepairedBy          string     `json:"repaired_by" db:"repaired_by"`
	RepairDescription   string     `json:"repair_description" db:"repair_description"`
	Cost                *float64   `json:"cost,omitempty" db:"cost"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty" db:"next_maintenance_date"`
	Notes               string     `json:"notes,omitempty" db:"notes"`
	RepairStatus        string     `json:"repair_status" db:"repair_status"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
