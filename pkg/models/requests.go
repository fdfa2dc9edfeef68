package models

// InitialAssignment optionally accompanies asset registration: one ledger
// record is created together with the asset row.
type InitialAssignment struct {
	EmployeeID    int    `json:"employee_id" binding:"required"`
	HandoverBy    int    `json:"handover_by" binding:"required"`
	DepartmentID  *int   `json:"department_id"`
	Floor         string `json:"floor"`
	HistoryStatus string `json:"history_status"`
	Note          string `json:"note"`
}

type RegisterAssetRequest struct {
	Code              string             `json:"asset_code" binding:"required"`
	Name              string             `json:"asset_name" binding:"required"`
	CategoryID        *int               `json:"category_id"`
	Brand             string             `json:"brand"`
	Model             string             `json:"model"`
	SerialNumber      string             `json:"serial_number"`
	Type              string             `json:"type"`
	IPAddress         []string           `json:"ip_address"`
	MACAddress        string             `json:"mac_address"`
	MACWifi           string             `json:"mac_wifi"`
	Hub               string             `json:"hub"`
	VcsLanNo          string             `json:"vcs_lan_no"`
	StartUseDate      *string            `json:"start_use_date"`
	BelongsToDeptID   *int               `json:"belongs_to_dept_id"`
	VendorID          *int               `json:"vendor_id"`
	LocationID        *string            `json:"location_id"`
	PurchaseDate      *string            `json:"purchase_date"`
	PurchasePrice     *float64           `json:"purchase_price"`
	WarrantyExpiry    *string            `json:"warranty_expiry"`
	MaintenanceCycle  *int               `json:"maintenance_cycle"`
	Status            string             `json:"status"`
	UpgradeInfor      string             `json:"upgrade_infor"`
	Notes             string             `json:"notes"`
	OS                string             `json:"os"`
	Office            string             `json:"office"`
	SoftwareUsed      []string           `json:"software_used"`
	Configuration     string             `json:"configuration"`
	InitialAssignment *InitialAssignment `json:"initial_assignment"`
}

type AssignAssetRequest struct {
	AssetID       int      `json:"asset_id" binding:"required"`
	HandoverBy    int      `json:"handover_by" binding:"required"`
	DepartmentID  *int     `json:"department_id"`
	Floor         string   `json:"floor"`
	HistoryStatus string   `json:"history_status"`
	Note          string   `json:"note"`
	IsHandover    bool     `json:"is_handover"`
	IPAddress     []string `json:"ip_address"`
}

type AllocateForDeletionRequest struct {
	AssetID      int    `json:"asset_id" binding:"required"`
	HandoverBy   int    `json:"handover_by" binding:"required"`
	DepartmentID *int   `json:"department_id"`
	Floor        string `json:"floor" binding:"required"`
	Note         string `json:"note"`
	IsHandover   bool   `json:"is_handover"`
}

type SetupItem struct {
	EmpCode   string `json:"emp_code" binding:"required"`
	AssetCode string `json:"asset_code" binding:"required"`
	HistoryID int    `json:"history_id" binding:"required"`
}

type ConfirmHandoverRequest struct {
	AssetIDs     []int  `json:"asset_ids"`
	HistoryIDs   []int  `json:"history_ids"`
	HandoverBy   int    `json:"handover_by" binding:"required"`
	DepartmentID int    `json:"department_id" binding:"required"`
	Note         string `json:"note"`
}

type AssetSelectionRequest struct {
	AssetIDs []int `json:"asset_ids" binding:"required"`
}

type CreateEmployeeRequest struct {
	EmpCode        string `json:"emp_code" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Role           string `json:"role"`
	StatusAccount  string `json:"status_account"`
	BusinessUnitID int    `json:"business_unit_id" binding:"required"`
	DepartmentID   int    `json:"department_id" binding:"required"`
	Position       string `json:"position"`
	JoinDate       string `json:"join_date"`
	StatusWork     string `json:"status_work"`
	Note           string `json:"note"`
}

type UpdateEmployeeRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	BusinessUnitID int     `json:"business_unit_id"`
	DepartmentID   int     `json:"department_id"`
	Position       string  `json:"position"`
	JoinDate       *string `json:"join_date"`
	Role           string  `json:"role"`
	StatusAccount  string  `json:"status_account"`
	LeaveDate      *string `json:"leave_date"`
	StatusWork     string  `json:"status_work"`
	Note           string  `json:"note"`
}

type RepairRequest struct {
	AssetID             int      `json:"asset_id" binding:"required"`
	RepairDate          string   `json:"repair_date" binding:"required"`
	RepairedBy          string   `json:"repaired_by" binding:"required"`
	RepairDescription   string   `json:"repair_description" binding:"required"`
	Cost                *float64 `json:"cost"`
	NextMaintenanceDate *string  `json:"next_maintenance_date"`
	Notes               string   `json:"notes"`
	RepairStatus        string   `json:"repair_status"`
}
