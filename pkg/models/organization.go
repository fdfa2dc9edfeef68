package models

type Department struct {
	ID               int    `json:"department_id" db:"department_id"`
	Code             string `json:"department_code,omitempty" db:"department_code"`
	Name             string `json:"department_name" db:"department_name"`
	BusinessUnitID   *int   `json:"business_unit_id,omitempty" db:"business_unit_id"`
	BusinessUnitName string `json:"business_unit_name,omitempty" db:"business_unit_name"`
}

type BusinessUnit struct {
	ID   int    `json:"business_unit_id" db:"business_unit_id"`
	Name string `json:"business_unit_name" db:"business_unit_name"`
}

type Vendor struct {
	ID          int    `json:"vendor_id" db:"vendor_id"`
	Name        string `json:"vendor_name" db:"vendor_name"`
	ContactInfo string `json:"contact_info,omitempty" db:"contact_info"`
}

type AssetCategory struct {
	ID   int    `json:"category_id" db:"category_id"`
	Name string `json:"category_name" db:"category_name"`
}

// CatalogStatus is one row of the asset status catalog.
type CatalogStatus struct {
	ID   int    `json:"status_id" db:"status_id"`
	Name string `json:"status_name" db:"status_name"`
}
