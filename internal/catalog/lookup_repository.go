package catalog

import (
	"fmt"

	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Lookup tables backing the registry forms. All read-only; rows are managed
// by migration or by hand.

func (r *Repository) ListDepartments() ([]models.Department, error) {
	var departments []models.Department
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("d.department_id").As("department_id"),
			goqu.I("d.department_code").As("department_code"),
			goqu.I("d.department_name").As("department_name"),
			goqu.I("d.business_unit_id").As("business_unit_id"),
			goqu.I("bu.business_unit_name").As("business_unit_name"),
		).
		From(goqu.T("departments").As("d")).
		LeftJoin(
			goqu.T("business_units").As("bu"),
			goqu.On(goqu.Ex{"d.business_unit_id": goqu.I("bu.business_unit_id")}),
		).
		Order(goqu.I("d.department_name").Asc())

	if err := query.Executor().ScanStructs(&departments); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return departments, nil
}

func (r *Repository) ListDepartmentsByBusinessUnit(businessUnitID int) ([]models.Department, error) {
	var departments []models.Department
	query := r.repository.GoquDBWrapper.
		Select("department_id", "department_code", "department_name", "business_unit_id").
		From("departments").
		Where(goqu.Ex{"business_unit_id": businessUnitID}).
		Order(goqu.I("department_name").Asc())

	if err := query.Executor().ScanStructs(&departments); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return departments, nil
}

func (r *Repository) ListBusinessUnits() ([]models.BusinessUnit, error) {
	var units []models.BusinessUnit
	query := r.repository.GoquDBWrapper.
		Select("business_unit_id", "business_unit_name").
		From("business_units").
		Order(goqu.I("business_unit_name").Asc())

	if err := query.Executor().ScanStructs(&units); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return units, nil
}

func (r *Repository) ListVendors() ([]models.Vendor, error) {
	var vendors []models.Vendor
	query := r.repository.GoquDBWrapper.
		Select("vendor_id", "vendor_name", "contact_info").
		From("vendors").
		Order(goqu.I("vendor_name").Asc())

	if err := query.Executor().ScanStructs(&vendors); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return vendors, nil
}

// ListSoftwareUsed flattens the per-asset software_used arrays into one
// distinct, sorted list of software names.
func (r *Repository) ListSoftwareUsed() ([]string, error) {
	var software []string
	if err := r.softwareUsedQuery().Executor().ScanVals(&software); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return software, nil
}

func (r *Repository) softwareUsedQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(goqu.L("DISTINCT unnest(software_used)").As("software_name")).
		From("assets").
		Where(goqu.C("software_used").IsNotNull()).
		Order(goqu.I("software_name").Asc())
}

func (r *Repository) ListCategories() ([]models.AssetCategory, error) {
	var categories []models.AssetCategory
	query := r.repository.GoquDBWrapper.
		Select("category_id", "category_name").
		From("asset_categories").
		Order(goqu.I("category_name").Asc())

	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return categories, nil
}
