package custody

import (
	"fmt"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Read surface over the custody ledger. Everything here is a joined
// projection; state changes go through the lifecycle engine.

func (r *LedgerRepository) GetHistory(historyStatus string) ([]models.CustodyDetail, error) {
	query := r.getDetailQuery()
	if historyStatus != "" {
		status, err := metadata.NewHistoryStatus(historyStatus)
		if err != nil {
			return nil, custom_error.NewValidation("invalid history status: %s", historyStatus)
		}
		query = query.Where(goqu.Ex{"ah.history_status": status.String()})
	}

	return r.scanDetails(query.Order(goqu.I("ah.history_id").Desc()))
}

func (r *LedgerRepository) GetHistoryDetail(historyID int) (*models.CustodyDetail, error) {
	var detail models.CustodyDetail
	query := r.getDetailQuery().Where(goqu.Ex{"ah.history_id": historyID})

	found, err := query.Executor().ScanStruct(&detail)
	if err != nil {
		return nil, fmt.Errorf("unable to select custody record from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("custody record %d not found", historyID)
	}

	return &detail, nil
}

// GetAssetHistory lists every custody episode an asset went through, newest
// first, including closed ones.
func (r *LedgerRepository) GetAssetHistory(assetID int) ([]models.CustodyDetail, error) {
	return r.scanDetails(r.assetHistoryQuery(assetID))
}

func (r *LedgerRepository) assetHistoryQuery(assetID int) *goqu.SelectDataset {
	return r.getDetailQuery().
		Where(goqu.Ex{"ah.asset_id": assetID}).
		Order(goqu.I("ah.history_id").Desc())
}

// GetRegisteredFloors lists the floors an in-use asset was handed over on.
func (r *LedgerRepository) GetRegisteredFloors(assetID int) ([]string, error) {
	var floors []string
	query := r.repository.GoquDBWrapper.
		Select(goqu.DISTINCT("floor")).
		From("assets_history").
		Where(goqu.Ex{
			"asset_id":       assetID,
			"history_status": metadata.HistoryInUse.String(),
			"is_handover":    true,
			"returned_date":  nil,
		}).
		Where(goqu.C("floor").Neq(""))

	if err := query.Executor().ScanVals(&floors); err != nil {
		return nil, fmt.Errorf("failed to select floors: %w", err)
	}

	return floors, nil
}

// GetAccountProvisioningList is the directory-sync worklist: episodes whose
// setup finished but whose handover has not been confirmed yet.
func (r *LedgerRepository) GetAccountProvisioningList() ([]models.CustodyDetail, error) {
	query := r.getDetailQuery().
		Where(goqu.Ex{
			"ah.history_status": metadata.HistoryAwaitingHandover.String(),
			"ah.returned_date":  nil,
		}).
		Order(goqu.I("ah.handover_date").Asc())

	return r.scanDetails(query)
}

// GetLogonSetupList lists awaiting-handover episodes for machines that carry
// a network identity, where a logon name still has to be configured.
func (r *LedgerRepository) GetLogonSetupList() ([]models.CustodyDetail, error) {
	query := r.getDetailQuery().
		Where(goqu.Ex{
			"ah.history_status": metadata.HistoryAwaitingHandover.String(),
			"ah.returned_date":  nil,
		}).
		Where(goqu.C("mac_address").Table("a").Neq("")).
		Order(goqu.I("ah.handover_date").Asc())

	return r.scanDetails(query)
}

// GetAccountRemovalList is the opposite worklist: custodians of assets
// allocated for deletion whose directory accounts should be removed.
func (r *LedgerRepository) GetAccountRemovalList() ([]models.CustodyDetail, error) {
	query := r.getDetailQuery().
		Where(goqu.Ex{
			"ah.history_status": metadata.HistoryAllocatedPendingDeletion.String(),
			"ah.returned_date":  nil,
		}).
		Order(goqu.I("ah.handover_date").Asc())

	return r.scanDetails(query)
}

// GetReturnedAssets lists episodes that were returned but not yet finalized.
func (r *LedgerRepository) GetReturnedAssets() ([]models.CustodyDetail, error) {
	query := r.getDetailQuery().
		Where(goqu.Ex{
			"ah.history_status": metadata.HistoryReturned.String(),
			"ah.returned_date":  nil,
		}).
		Order(goqu.I("ah.history_id").Desc())

	return r.scanDetails(query)
}

// GetEmployeeAssets lists the open episodes an employee currently holds.
func (r *LedgerRepository) GetEmployeeAssets(empCode string) ([]models.CustodyDetail, error) {
	query := r.getDetailQuery().
		Where(goqu.Ex{
			"e.emp_code":       empCode,
			"ah.returned_date": nil,
		}).
		Order(goqu.I("ah.history_id").Desc())

	return r.scanDetails(query)
}

func (r *LedgerRepository) scanDetails(query *goqu.SelectDataset) ([]models.CustodyDetail, error) {
	var details []models.CustodyDetail
	if err := query.Executor().ScanStructs(&details); err != nil {
		return nil, fmt.Errorf("unable to select custody records from database: %w", err)
	}
	return details, nil
}

func (r *LedgerRepository) getDetailQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("ah.history_id").As("history_id"),
		goqu.I("ah.asset_id").As("asset_id"),
		goqu.I("ah.employee_id").As("employee_id"),
		goqu.I("ah.handover_by").As("handover_by"),
		goqu.I("ah.department_id").As("department_id"),
		goqu.I("ah.handover_date").As("handover_date"),
		goqu.I("ah.returned_date").As("returned_date"),
		goqu.I("ah.floor").As("floor"),
		goqu.I("ah.history_status").As("history_status"),
		goqu.I("ah.is_handover").As("is_handover"),
		goqu.I("ah.note").As("note"),
		goqu.I("a.asset_code").As("asset_code"),
		goqu.I("a.asset_name").As("asset_name"),
		"a.brand",
		"a.model",
		goqu.I("a.serial_number").As("serial_number"),
		goqu.I("a.mac_address").As("mac_address"),
		goqu.I("a.mac_wifi").As("mac_wifi"),
		goqu.I("s.status_name").As("status_name"),
		goqu.I("e.emp_code").As("employee_code"),
		goqu.I("e.full_name").As("employee_name"),
		goqu.I("e.email").As("employee_email"),
		goqu.I("e.position").As("employee_position"),
		goqu.I("e.status_work").As("employee_status"),
		goqu.I("hb.emp_code").As("handover_by_code"),
		goqu.I("hb.full_name").As("handover_by_name"),
		goqu.I("d.department_name").As("department_name"),
		goqu.I("bu.business_unit_name").As("business_unit_name"),
	).
		From(goqu.T("assets_history").As("ah")).
		InnerJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"ah.asset_id": goqu.I("a.asset_id")}),
		).
		InnerJoin(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"ah.employee_id": goqu.I("e.id")}),
		).
		LeftJoin(
			goqu.T("employees").As("hb"),
			goqu.On(goqu.Ex{"ah.handover_by": goqu.I("hb.id")}),
		).
		LeftJoin(
			goqu.T("asset_statuses").As("s"),
			goqu.On(goqu.Ex{"a.status_id": goqu.I("s.status_id")}),
		).
		LeftJoin(
			goqu.T("departments").As("d"),
			goqu.On(goqu.Ex{"ah.department_id": goqu.I("d.department_id")}),
		).
		LeftJoin(
			goqu.T("business_units").As("bu"),
			goqu.On(goqu.Ex{"e.business_unit_id": goqu.I("bu.business_unit_id")}),
		)
}
