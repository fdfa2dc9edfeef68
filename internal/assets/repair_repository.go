package assets

import (
	"fmt"

	"custodian/internal/repository"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// RepairRepository records maintenance performed on registered assets. A
// repair row never touches lifecycle state.
type RepairRepository struct {
	repository *repository.Repository
}

func NewRepairRepository(r *repository.Repository) *RepairRepository {
	return &RepairRepository{
		repository: r,
	}
}

func (r *RepairRepository) CreateRepair(req models.RepairRequest) (*models.RepairRecord, error) {
	status := req.RepairStatus
	if status == "" {
		status = "completed"
	}

	var repairID int
	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var exists int
		found, err := tx.Select(goqu.L("1")).
			From("assets").
			Where(goqu.Ex{"asset_id": req.AssetID}).
			Executor().
			ScanVal(&exists)
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if !found {
			return custom_error.NewNotFound("asset %d not found", req.AssetID)
		}

		record := goqu.Record{
			"asset_id":           req.AssetID,
			"repair_date":        req.RepairDate,
			"repaired_by":        req.RepairedBy,
			"repair_description": req.RepairDescription,
			"cost":               req.Cost,
			"notes":              req.Notes,
			"repair_status":      status,
		}
		if req.NextMaintenanceDate != nil {
			record["next_maintenance_date"] = *req.NextMaintenanceDate
		}

		query := tx.Insert("asset_repair_history").Rows(record).Returning("repair_id")
		if _, err := query.Executor().ScanVal(&repairID); err != nil {
			return fmt.Errorf("failed to insert repair record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetRepair(repairID)
}

func (r *RepairRepository) GetRepair(repairID int) (*models.RepairRecord, error) {
	var record models.RepairRecord
	query := r.getRepairQuery().Where(goqu.Ex{"rh.repair_id": repairID})

	found, err := query.Executor().ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("unable to select repair record from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("repair record %d not found", repairID)
	}

	return &record, nil
}

func (r *RepairRepository) GetRepairsForAsset(assetID int) ([]models.RepairRecord, error) {
	query := r.getRepairQuery().
		Where(goqu.Ex{"rh.asset_id": assetID}).
		Order(goqu.I("rh.repair_date").Desc())
	return r.scanRepairs(query)
}

func (r *RepairRepository) GetRepairList() ([]models.RepairRecord, error) {
	return r.scanRepairs(r.getRepairQuery().Order(goqu.I("rh.repair_date").Desc()))
}

func (r *RepairRepository) UpdateRepair(repairID int, req models.RepairRequest) (*models.RepairRecord, error) {
	record := goqu.Record{
		"repair_date":        req.RepairDate,
		"repaired_by":        req.RepairedBy,
		"repair_description": req.RepairDescription,
		"cost":               req.Cost,
		"notes":              req.Notes,
		"updated_at":         goqu.L("NOW()"),
	}
	if req.RepairStatus != "" {
		record["repair_status"] = req.RepairStatus
	}
	if req.NextMaintenanceDate != nil {
		record["next_maintenance_date"] = *req.NextMaintenanceDate
	}

	result, err := r.repository.GoquDBWrapper.
		Update("asset_repair_history").
		Set(record).
		Where(goqu.Ex{"repair_id": repairID}).
		Executor().
		Exec()

	if err != nil {
		return nil, fmt.Errorf("failed to update repair record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, custom_error.NewNotFound("repair record %d not found", repairID)
	}

	return r.GetRepair(repairID)
}

func (r *RepairRepository) DeleteRepair(repairID int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("asset_repair_history").
		Where(goqu.Ex{"repair_id": repairID}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to delete repair record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("repair record %d not found", repairID)
	}

	return nil
}

func (r *RepairRepository) scanRepairs(query *goqu.SelectDataset) ([]models.RepairRecord, error) {
	var records []models.RepairRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to select repair records from database: %w", err)
	}
	return records, nil
}

func (r *RepairRepository) getRepairQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("rh.repair_id").As("repair_id"),
		goqu.I("rh.asset_id").As("asset_id"),
		goqu.I("a.asset_code").As("asset_code"),
		goqu.I("a.asset_name").As("asset_name"),
		goqu.I("rh.repair_date").As("repair_date"),
		goqu.I("rh.repaired_by").As("repaired_by"),
		goqu.I("rh.repair_description").As("repair_description"),
		"rh.cost",
		goqu.I("rh.next_maintenance_date").As("next_maintenance_date"),
		"rh.notes",
		goqu.I("rh.repair_status").As("repair_status"),
		goqu.I("rh.created_at").As("created_at"),
		goqu.I("rh.updated_at").As("updated_at"),
	).
		From(goqu.T("asset_repair_history").As("rh")).
		InnerJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"rh.asset_id": goqu.I("a.asset_id")}),
		)
}
