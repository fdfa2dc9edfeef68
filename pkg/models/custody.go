package models

import "time"

// CustodyRecord is one episode of an asset being held by an employee. The
// identifying fields are immutable once written; history_status,
// returned_date, note, handover_by and department advance in place as the
// episode moves through its lifecycle.
type CustodyRecord struct {
	HistoryID     int        `json:"history_id" db:"history_id"`
	AssetID       int        `json:"asset_id" db:"asset_id"`
	EmployeeID    int        `json:"employee_id" db:"employee_id"`
	HandoverBy    int        `json:"handover_by" db:"handover_by"`
	DepartmentID  *int       `json:"department_id,omitempty" db:"department_id"`
	HandoverDate  time.Time  `json:"handover_date" db:"handover_date"`
	ReturnedDate  *time.Time `json:"returned_date,omitempty" db:"returned_date"`
	Floor         string     `json:"floor,omitempty" db:"floor"`
	HistoryStatus string     `json:"history_status" db:"history_status"`
	IsHandover    bool       `json:"is_handover" db:"is_handover"`
	Note          string     `json:"note,omitempty" db:"note"`
}

// CustodyDetail joins a ledger row with asset, employee, department and
// status display columns for the read surface.
type CustodyDetail struct {
	CustodyRecord
	AssetCode          string `json:"asset_code" db:"asset_code"`
	AssetName          string `json:"asset_name" db:"asset_name"`
	Brand              string `json:"brand,omitempty" db:"brand"`
	Model              string `json:"model,omitempty" db:"model"`
	SerialNumber       string `json:"serial_number,omitempty" db:"serial_number"`
	MACAddress         string `json:"mac_address,omitempty" db:"mac_address"`
	MACWifi            string `json:"mac_wifi,omitempty" db:"mac_wifi"`
	EmployeeCode       string `json:"employee_code" db:"employee_code"`
	EmployeeName       string `json:"employee_name" db:"employee_name"`
	EmployeeEmail      string `json:"employee_email,omitempty" db:"employee_email"`
	EmployeePosition   string `json:"employee_position,omitempty" db:"employee_position"`
	EmployeeWorkStatus string `json:"employee_status,omitempty" db:"employee_status"`
	HandoverByCode     string `json:"handover_by_code,omitempty" db:"handover_by_code"`
	HandoverByName     string `json:"handover_by_name,omitempty" db:"handover_by_name"`
	DepartmentName     string `json:"department_name,omitempty" db:"department_name"`
	BusinessUnitName   string `json:"business_unit_name,omitempty" db:"business_unit_name"`
	AssetStatusName    string `json:"status_name" db:"status_name"`
}

// LedgerRow is the locked projection of a ledger record, read by the
// lifecycle engine inside its transactions. Asset display state is resolved
// separately through the registry's locking reads.
type LedgerRow struct {
	HistoryID     int    `db:"history_id"`
	AssetID       int    `db:"asset_id"`
	HistoryStatus string `db:"history_status"`
	IsHandover    bool   `db:"is_handover"`
}

// CustodyFilter selects ledger rows for locking inside an engine
// transaction. AssetIDs and HistoryIDs combine with OR when both are set so
// a selection may be addressed by either identifier.
type CustodyFilter struct {
	EmployeeID *int
	AssetIDs   []int
	HistoryIDs []int
	Statuses   []string
	OpenOnly   bool
}

// NewCustodyRecord is the insert payload for a fresh ledger entry;
// handover_date is stamped by the repository.
type NewCustodyRecord struct {
	AssetID       int
	EmployeeID    int
	HandoverBy    int
	DepartmentID  *int
	Floor         string
	HistoryStatus string
	IsHandover    bool
	Note          string
}
