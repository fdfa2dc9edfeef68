package assets

import (
	"fmt"

	"custodian/internal/repository"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

// LockStateByID reads the asset row FOR UPDATE so concurrent transitions
// against the same asset serialize before precondition checks.
func (r *AssetsRepository) LockStateByID(tx *goqu.TxDatabase, assetID int) (*models.AssetState, error) {
	return r.lockState(tx, goqu.Ex{"asset_id": assetID}, fmt.Sprintf("asset %d", assetID))
}

func (r *AssetsRepository) LockStateByCode(tx *goqu.TxDatabase, assetCode string) (*models.AssetState, error) {
	return r.lockState(tx, goqu.Ex{"asset_code": assetCode}, fmt.Sprintf("asset %s", assetCode))
}

func (r *AssetsRepository) lockState(tx *goqu.TxDatabase, condition goqu.Ex, label string) (*models.AssetState, error) {
	var state models.AssetState
	found, err := tx.Select("asset_id", "asset_code", "status_id").
		From("assets").
		Where(condition).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&state)

	if err != nil {
		return nil, fmt.Errorf("failed to lock asset row: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("%s not found", label)
	}

	// The catalog row itself is stable; no lock needed for the name.
	_, err = tx.Select("status_name").
		From("asset_statuses").
		Where(goqu.Ex{"status_id": state.StatusID}).
		Executor().
		ScanVal(&state.StatusName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve status name for %s: %w", label, err)
	}

	return &state, nil
}

// LockStates locks a set of asset rows and returns their current state keyed
// by asset id. Status names are not resolved here.
func (r *AssetsRepository) LockStates(tx *goqu.TxDatabase, assetIDs []int) (map[int]models.AssetState, error) {
	if len(assetIDs) == 0 {
		return map[int]models.AssetState{}, nil
	}

	var states []models.AssetState
	err := tx.Select("asset_id", "asset_code", "status_id").
		From("assets").
		Where(goqu.C("asset_id").In(assetIDs)).
		Order(goqu.I("asset_id").Asc()).
		ForUpdate(exp.Wait).
		Executor().
		ScanStructs(&states)

	if err != nil {
		return nil, fmt.Errorf("failed to lock asset rows: %w", err)
	}

	byID := make(map[int]models.AssetState, len(states))
	for _, state := range states {
		byID[state.ID] = state
	}
	return byID, nil
}

// LockIDsByStatus locks every asset currently in the given status and
// returns their ids.
func (r *AssetsRepository) LockIDsByStatus(tx *goqu.TxDatabase, statusID int) ([]int, error) {
	var ids []int
	err := tx.Select("asset_id").
		From("assets").
		Where(goqu.Ex{"status_id": statusID}).
		Order(goqu.I("asset_id").Asc()).
		ForUpdate(exp.Wait).
		Executor().
		ScanVals(&ids)

	if err != nil {
		return nil, fmt.Errorf("failed to lock assets by status: %w", err)
	}
	return ids, nil
}

func (r *AssetsRepository) Insert(tx *goqu.TxDatabase, req models.RegisterAssetRequest, statusID int) (int, error) {
	record := goqu.Record{
		"asset_code":         req.Code,
		"asset_name":         req.Name,
		"category_id":        req.CategoryID,
		"brand":              req.Brand,
		"model":              req.Model,
		"serial_number":      req.SerialNumber,
		"type":               req.Type,
		"mac_address":        req.MACAddress,
		"mac_wifi":           req.MACWifi,
		"hub":                req.Hub,
		"vcs_lan_no":         req.VcsLanNo,
		"start_use_date":     req.StartUseDate,
		"belongs_to_dept_id": req.BelongsToDeptID,
		"vendor_id":          req.VendorID,
		"location_id":        req.LocationID,
		"purchase_date":      req.PurchaseDate,
		"purchase_price":     req.PurchasePrice,
		"warranty_expiry":    req.WarrantyExpiry,
		"maintenance_cycle":  req.MaintenanceCycle,
		"status_id":          statusID,
		"upgrade_infor":      req.UpgradeInfor,
		"notes":              req.Notes,
		"os":                 req.OS,
		"office":             req.Office,
		"configuration":      req.Configuration,
	}
	if len(req.IPAddress) > 0 {
		record["ip_address"] = pq.Array(req.IPAddress)
	}
	if len(req.SoftwareUsed) > 0 {
		record["software_used"] = pq.Array(req.SoftwareUsed)
	}

	var assetID int
	query := tx.Insert("assets").Rows(record).Returning("asset_id")
	if _, err := query.Executor().ScanVal(&assetID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("Duplicate asset code or serial number", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return assetID, nil
}

func (r *AssetsRepository) UpdateStatus(tx *goqu.TxDatabase, assetID int, statusID int) error {
	result, err := tx.Update("assets").
		Set(goqu.Record{"status_id": statusID}).
		Where(goqu.Ex{"asset_id": assetID}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("asset %d not found", assetID)
	}

	return nil
}

func (r *AssetsRepository) UpdateStatusBulk(tx *goqu.TxDatabase, assetIDs []int, statusID int) error {
	if len(assetIDs) == 0 {
		return nil
	}

	result, err := tx.Update("assets").
		Set(goqu.Record{"status_id": statusID}).
		Where(goqu.C("asset_id").In(assetIDs)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update asset statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if int(rowsAffected) != len(assetIDs) {
		return fmt.Errorf("expected to update %d assets, but updated %d", len(assetIDs), rowsAffected)
	}

	return nil
}

// UpdateStatusPerAsset moves each asset to its own target status in one
// statement, mirroring the unregister transition where targets differ per
// ledger record.
func (r *AssetsRepository) UpdateStatusPerAsset(tx *goqu.TxDatabase, statusByAsset map[int]int) error {
	if len(statusByAsset) == 0 {
		return nil
	}

	statusCase := goqu.Case()
	ids := make([]int, 0, len(statusByAsset))
	for assetID, statusID := range statusByAsset {
		statusCase = statusCase.When(goqu.Ex{"asset_id": assetID}, statusID)
		ids = append(ids, assetID)
	}

	result, err := tx.Update("assets").
		Set(goqu.Record{"status_id": statusCase}).
		Where(goqu.C("asset_id").In(ids)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update asset statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if int(rowsAffected) != len(ids) {
		return fmt.Errorf("expected to update %d assets, but updated %d", len(ids), rowsAffected)
	}

	return nil
}

func (r *AssetsRepository) UpdateNetwork(tx *goqu.TxDatabase, assetID int, ipAddresses []string) error {
	_, err := tx.Update("assets").
		Set(goqu.Record{"ip_address": pq.Array(ipAddresses)}).
		Where(goqu.Ex{"asset_id": assetID}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update asset network addresses: %w", err)
	}
	return nil
}

func (r *AssetsRepository) GetAsset(assetID int) (*models.Asset, error) {
	return r.fetchAssetByCondition(goqu.Ex{"a.asset_id": assetID}, fmt.Sprintf("asset %d", assetID))
}

func (r *AssetsRepository) GetAssetByCode(assetCode string) (*models.Asset, error) {
	return r.fetchAssetByCondition(goqu.Ex{"a.asset_code": assetCode}, fmt.Sprintf("asset %s", assetCode))
}

func (r *AssetsRepository) GetAssetList() ([]models.Asset, error) {
	var assets []models.Asset
	query := r.getAssetQuery().Order(goqu.I("a.asset_id").Desc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

// GetAssetsByStatus lists assets in one lifecycle state; backs the
// available / pending-deletion / allocated-for-deletion worklists.
func (r *AssetsRepository) GetAssetsByStatus(status metadata.AssetStatus) ([]models.Asset, error) {
	var assets []models.Asset
	query := r.getAssetQuery().
		Where(goqu.Ex{"s.status_name": status.String()}).
		Order(goqu.I("a.asset_code").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

// GetReassignableAssets lists in-use assets that the given employee does not
// already hold, for shared-device reassignment.
func (r *AssetsRepository) GetReassignableAssets(employeeID int) ([]models.Asset, error) {
	var assets []models.Asset
	held := r.repository.GoquDBWrapper.
		Select("asset_id").
		From("assets_history").
		Where(goqu.Ex{
			"employee_id":    employeeID,
			"history_status": metadata.HistoryInUse.String(),
			"returned_date":  nil,
		})

	query := r.getAssetQuery().
		Where(goqu.Ex{"s.status_name": metadata.AssetInUse.String()}).
		Where(goqu.I("a.asset_id").NotIn(held)).
		Order(goqu.I("a.asset_code").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

func (r *AssetsRepository) SearchAssets(term string) ([]models.AssetSummary, error) {
	var summaries []models.AssetSummary
	pattern := "%" + term + "%"
	query := r.repository.GoquDBWrapper.
		Select("asset_id", "asset_code", "asset_name").
		From("assets").
		Where(goqu.Or(
			goqu.L("LOWER(asset_code) LIKE LOWER(?)", pattern),
			goqu.L("LOWER(asset_name) LIKE LOWER(?)", pattern),
		)).
		Order(goqu.I("asset_code").Asc()).
		Limit(10)

	if err := query.Executor().ScanStructs(&summaries); err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}

	return summaries, nil
}

func (r *AssetsRepository) GetAssetCounts() (*models.AssetCounts, error) {
	var counts models.AssetCounts
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.COUNT("*").As("total"),
			goqu.L("SUM(CASE WHEN s.status_name = ? THEN 1 ELSE 0 END)", metadata.AssetInUse.String()).As("in_use"),
			goqu.L("SUM(CASE WHEN s.status_name = ? THEN 1 ELSE 0 END)", metadata.AssetInstalling.String()).As("installing"),
			goqu.L("SUM(CASE WHEN s.status_name = ? THEN 1 ELSE 0 END)", metadata.AssetPendingDeletion.String()).As("pending_deletion"),
		).
		From(goqu.T("assets").As("a")).
		LeftJoin(
			goqu.T("asset_statuses").As("s"),
			goqu.On(goqu.Ex{"a.status_id": goqu.I("s.status_id")}),
		)

	if _, err := query.Executor().ScanStruct(&counts); err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	return &counts, nil
}

// UpdateAssetFields applies a partial administrative update by asset code.
// This path does not touch status_id; status belongs to the lifecycle engine.
func (r *AssetsRepository) UpdateAssetFields(assetCode string, record goqu.Record) (*models.Asset, error) {
	delete(record, "status_id")
	if len(record) == 0 {
		return nil, custom_error.NewValidation("no updatable fields supplied")
	}

	result, err := r.repository.GoquDBWrapper.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"asset_code": assetCode}).
		Executor().
		Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Duplicate asset code or serial number", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, custom_error.NewNotFound("asset %s not found", assetCode)
	}

	return r.GetAssetByCode(assetCode)
}

// RemoveAsset is the administrative hard delete. It bypasses the lifecycle
// engine and leaves any ledger history dangling.
func (r *AssetsRepository) RemoveAsset(assetID int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("assets").
		Where(goqu.Ex{"asset_id": assetID}).
		Executor().
		Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Asset is referenced by custody history", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("asset %d not found", assetID)
	}

	return nil
}

func (r *AssetsRepository) fetchAssetByCondition(condition goqu.Expression, label string) (*models.Asset, error) {
	var asset models.Asset
	query := r.getAssetQuery().Where(condition)

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("%s not found", label)
	}

	return &asset, nil
}

func (r *AssetsRepository) getAssetQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("a.asset_id").As("asset_id"),
		goqu.I("a.asset_code").As("asset_code"),
		goqu.I("a.asset_name").As("asset_name"),
		goqu.I("a.category_id").As("category_id"),
		goqu.I("c.category_name").As("category_name"),
		"a.brand",
		"a.model",
		goqu.I("a.serial_number").As("serial_number"),
		"a.type",
		goqu.I("a.ip_address").As("ip_address"),
		goqu.I("a.mac_address").As("mac_address"),
		goqu.I("a.mac_wifi").As("mac_wifi"),
		"a.hub",
		goqu.I("a.vcs_lan_no").As("vcs_lan_no"),
		goqu.I("a.start_use_date").As("start_use_date"),
		goqu.I("a.belongs_to_dept_id").As("belongs_to_dept_id"),
		goqu.I("d.department_name").As("department_name"),
		goqu.I("a.vendor_id").As("vendor_id"),
		goqu.I("v.vendor_name").As("vendor_name"),
		goqu.I("a.location_id").As("location_id"),
		goqu.I("a.purchase_date").As("purchase_date"),
		goqu.I("a.purchase_price").As("purchase_price"),
		goqu.I("a.warranty_expiry").As("warranty_expiry"),
		goqu.I("a.maintenance_cycle").As("maintenance_cycle"),
		goqu.I("a.status_id").As("status_id"),
		goqu.I("s.status_name").As("status_name"),
		goqu.I("a.upgrade_infor").As("upgrade_infor"),
		"a.notes",
		"a.os",
		"a.office",
		goqu.I("a.software_used").As("software_used"),
		"a.configuration",
	).
		From(goqu.T("assets").As("a")).
		LeftJoin(
			goqu.T("asset_statuses").As("s"),
			goqu.On(goqu.Ex{"a.status_id": goqu.I("s.status_id")}),
		).
		LeftJoin(
			goqu.T("asset_categories").As("c"),
			goqu.On(goqu.Ex{"a.category_id": goqu.I("c.category_id")}),
		).
		LeftJoin(
			goqu.T("vendors").As("v"),
			goqu.On(goqu.Ex{"a.vendor_id": goqu.I("v.vendor_id")}),
		).
		LeftJoin(
			goqu.T("departments").As("d"),
			goqu.On(goqu.Ex{"a.belongs_to_dept_id": goqu.I("d.department_id")}),
		)
}
