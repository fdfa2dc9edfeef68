package custody

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

// LedgerRepository owns the append-only custody history. Rows are only ever
// inserted or advanced in place; nothing here deletes history.
type LedgerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{
		repository: r,
	}
}

// Insert appends a ledger record with handover_date stamped to the current
// day in database time.
func (r *LedgerRepository) Insert(tx *goqu.TxDatabase, rec models.NewCustodyRecord) (int, error) {
	record := goqu.Record{
		"asset_id":       rec.AssetID,
		"employee_id":    rec.EmployeeID,
		"handover_by":    rec.HandoverBy,
		"department_id":  rec.DepartmentID,
		"handover_date":  goqu.L("CURRENT_DATE"),
		"floor":          rec.Floor,
		"history_status": rec.HistoryStatus,
		"is_handover":    rec.IsHandover,
		"note":           rec.Note,
	}

	var historyID int
	query := tx.Insert("assets_history").Rows(record).Returning("history_id")
	if _, err := query.Executor().ScanVal(&historyID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("Asset or employee does not exist", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert custody record: %w", err)
	}

	return historyID, nil
}

// LockRows locks the ledger rows matching the filter and returns them in
// history_id order. Only ledger columns are selected; the table is locked
// bare so no join participates in the FOR UPDATE.
func (r *LedgerRepository) LockRows(tx *goqu.TxDatabase, filter models.CustodyFilter) ([]models.LedgerRow, error) {
	conditions := []goqu.Expression{}

	if filter.EmployeeID != nil {
		conditions = append(conditions, goqu.C("employee_id").Eq(*filter.EmployeeID))
	}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, goqu.C("history_status").In(filter.Statuses))
	}
	if filter.OpenOnly {
		conditions = append(conditions, goqu.C("returned_date").IsNull())
	}

	switch {
	case len(filter.AssetIDs) > 0 && len(filter.HistoryIDs) > 0:
		conditions = append(conditions, goqu.Or(
			goqu.C("asset_id").In(filter.AssetIDs),
			goqu.C("history_id").In(filter.HistoryIDs),
		))
	case len(filter.AssetIDs) > 0:
		conditions = append(conditions, goqu.C("asset_id").In(filter.AssetIDs))
	case len(filter.HistoryIDs) > 0:
		conditions = append(conditions, goqu.C("history_id").In(filter.HistoryIDs))
	}

	var rows []models.LedgerRow
	err := tx.Select("history_id", "asset_id", "history_status", "is_handover").
		From("assets_history").
		Where(conditions...).
		Order(goqu.I("history_id").Asc()).
		ForUpdate(exp.Wait).
		Executor().
		ScanStructs(&rows)

	if err != nil {
		return nil, fmt.Errorf("failed to lock custody records: %w", err)
	}

	return rows, nil
}

// AdvanceStatus moves the given ledger records to a new history status
// without closing them.
func (r *LedgerRepository) AdvanceStatus(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error {
	return r.updateRecords(tx, historyIDs, goqu.Record{"history_status": status.String()})
}

// StampHandover marks records as physically handed over: the episode becomes
// in-use and the acting custodian and department are recorded.
func (r *LedgerRepository) StampHandover(tx *goqu.TxDatabase, historyIDs []int, handoverBy int, departmentID int, note string) error {
	record := goqu.Record{
		"history_status": metadata.HistoryInUse.String(),
		"is_handover":    true,
		"handover_by":    handoverBy,
		"department_id":  departmentID,
	}
	if note != "" {
		record["note"] = note
	}
	return r.updateRecords(tx, historyIDs, record)
}

// CloseRecords finalizes ledger records: the status becomes terminal and
// returned_date is stamped, which removes them from every open-row query.
func (r *LedgerRepository) CloseRecords(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error {
	return r.updateRecords(tx, historyIDs, goqu.Record{
		"history_status": status.String(),
		"returned_date":  goqu.L("CURRENT_DATE"),
	})
}

func (r *LedgerRepository) updateRecords(tx *goqu.TxDatabase, historyIDs []int, record goqu.Record) error {
	if len(historyIDs) == 0 {
		return nil
	}

	result, err := tx.Update("assets_history").
		Set(record).
		Where(goqu.C("history_id").In(historyIDs)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update custody records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if int(rowsAffected) != len(historyIDs) {
		return fmt.Errorf("expected to update %d custody records, but updated %d", len(historyIDs), rowsAffected)
	}

	return nil
}

// CloseOpenForPair closes whatever open records exist for one employee and
// asset. Zero affected rows is not an error; the pair may have no open
// episode.
func (r *LedgerRepository) CloseOpenForPair(tx *goqu.TxDatabase, assetID int, employeeID int, status metadata.HistoryStatus) (int64, error) {
	result, err := tx.Update("assets_history").
		Set(goqu.Record{
			"history_status": status.String(),
			"returned_date":  goqu.L("CURRENT_DATE"),
		}).
		Where(goqu.Ex{
			"asset_id":      assetID,
			"employee_id":   employeeID,
			"returned_date": nil,
		}).
		Executor().
		Exec()

	if err != nil {
		return 0, fmt.Errorf("failed to close custody records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
