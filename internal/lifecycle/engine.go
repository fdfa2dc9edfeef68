package lifecycle

import (
	"sort"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// TxRunner opens a transaction and runs fn inside it. Any error rolls the
// whole transaction back.
type TxRunner interface {
	InTransaction(fn func(tx *goqu.TxDatabase) error) error
}

// StatusCatalog resolves named asset statuses to catalog ids.
type StatusCatalog interface {
	Resolve(tx *goqu.TxDatabase, status metadata.AssetStatus) (int, error)
}

// AssetStore is the registry surface the engine mutates. Lock methods take
// row locks before any precondition is evaluated.
type AssetStore interface {
	LockStateByID(tx *goqu.TxDatabase, assetID int) (*models.AssetState, error)
	LockStateByCode(tx *goqu.TxDatabase, assetCode string) (*models.AssetState, error)
	LockStates(tx *goqu.TxDatabase, assetIDs []int) (map[int]models.AssetState, error)
	LockIDsByStatus(tx *goqu.TxDatabase, statusID int) ([]int, error)
	Insert(tx *goqu.TxDatabase, req models.RegisterAssetRequest, statusID int) (int, error)
	UpdateStatus(tx *goqu.TxDatabase, assetID int, statusID int) error
	UpdateStatusBulk(tx *goqu.TxDatabase, assetIDs []int, statusID int) error
	UpdateStatusPerAsset(tx *goqu.TxDatabase, statusByAsset map[int]int) error
	UpdateNetwork(tx *goqu.TxDatabase, assetID int, ipAddresses []string) error
}

// LedgerStore is the append-only custody history surface.
type LedgerStore interface {
	Insert(tx *goqu.TxDatabase, rec models.NewCustodyRecord) (int, error)
	LockRows(tx *goqu.TxDatabase, filter models.CustodyFilter) ([]models.LedgerRow, error)
	AdvanceStatus(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error
	StampHandover(tx *goqu.TxDatabase, historyIDs []int, handoverBy int, departmentID int, note string) error
	CloseRecords(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error
	CloseOpenForPair(tx *goqu.TxDatabase, assetID int, employeeID int, status metadata.HistoryStatus) (int64, error)
}

// EmployeeStore is the directory surface the engine reads and, for the
// parallel employee lifecycle, mutates.
type EmployeeStore interface {
	GetIDByCode(tx *goqu.TxDatabase, empCode string) (int, error)
	LockStateByCode(tx *goqu.TxDatabase, empCode string) (*models.EmployeeState, error)
	CountOpenCustody(tx *goqu.TxDatabase, employeeID int) (int, error)
	SetWorkStatus(tx *goqu.TxDatabase, empCode string, status metadata.WorkStatus) error
	PromoteResigned(tx *goqu.TxDatabase) (int64, error)
	DeleteActivityLogs(tx *goqu.TxDatabase, employeeID int) error
	DeleteLedgerRows(tx *goqu.TxDatabase, employeeID int) error
	DeleteEmployee(tx *goqu.TxDatabase, employeeID int) error
}

// Engine executes custody lifecycle transitions. Every operation is one
// transaction: lock the rows involved, check preconditions against the
// locked state, then apply the paired asset and ledger writes.
type Engine struct {
	runner    TxRunner
	assets    AssetStore
	ledger    LedgerStore
	employees EmployeeStore
	catalog   StatusCatalog
	log       *zap.Logger
}

func NewEngine(
	runner TxRunner,
	assets AssetStore,
	ledger LedgerStore,
	employees EmployeeStore,
	catalog StatusCatalog,
	log *zap.Logger,
) *Engine {
	return &Engine{
		runner:    runner,
		assets:    assets,
		ledger:    ledger,
		employees: employees,
		catalog:   catalog,
		log:       log,
	}
}

// RegisterAsset inserts a new asset and, when an initial assignment is
// supplied, its opening ledger record in the same transaction.
func (e *Engine) RegisterAsset(req models.RegisterAssetRequest) (int, error) {
	status := metadata.AssetNew
	if req.Status != "" {
		parsed, err := metadata.NewAssetStatus(req.Status)
		if err != nil {
			return 0, custom_error.NewValidation("invalid asset status: %s", req.Status)
		}
		status = parsed
	}

	historyStatus := metadata.HistoryAssigned
	if req.InitialAssignment != nil && req.InitialAssignment.HistoryStatus != "" {
		parsed, err := metadata.NewHistoryStatus(req.InitialAssignment.HistoryStatus)
		if err != nil {
			return 0, custom_error.NewValidation("invalid history status: %s", req.InitialAssignment.HistoryStatus)
		}
		historyStatus = parsed
	}

	var assetID int
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		statusID, err := e.catalog.Resolve(tx, status)
		if err != nil {
			return err
		}

		assetID, err = e.assets.Insert(tx, req, statusID)
		if err != nil {
			return err
		}

		if req.InitialAssignment == nil {
			return nil
		}

		assignment := req.InitialAssignment
		_, err = e.ledger.Insert(tx, models.NewCustodyRecord{
			AssetID:       assetID,
			EmployeeID:    assignment.EmployeeID,
			HandoverBy:    assignment.HandoverBy,
			DepartmentID:  assignment.DepartmentID,
			Floor:         assignment.Floor,
			HistoryStatus: historyStatus.String(),
			Note:          assignment.Note,
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	e.log.Info("asset registered", zap.Int("asset_id", assetID), zap.String("asset_code", req.Code))
	return assetID, nil
}

// AssignAsset opens a custody episode: the asset must be assignable, the
// employee must exist, and the asset moves to installing.
func (e *Engine) AssignAsset(empCode string, req models.AssignAssetRequest) (int, error) {
	historyStatus := metadata.HistoryRegistered
	if req.HistoryStatus != "" {
		parsed, err := metadata.NewHistoryStatus(req.HistoryStatus)
		if err != nil {
			return 0, custom_error.NewValidation("invalid history status: %s", req.HistoryStatus)
		}
		historyStatus = parsed
	}

	var historyID int
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := e.assets.LockStateByID(tx, req.AssetID)
		if err != nil {
			return err
		}
		if !metadata.AssetStatus(asset.StatusName).Assignable() {
			return custom_error.NewPrecondition(
				"asset %s cannot be assigned while in status %s", asset.Code, asset.StatusName)
		}

		employeeID, err := e.employees.GetIDByCode(tx, empCode)
		if err != nil {
			return err
		}

		historyID, err = e.ledger.Insert(tx, models.NewCustodyRecord{
			AssetID:       asset.ID,
			EmployeeID:    employeeID,
			HandoverBy:    req.HandoverBy,
			DepartmentID:  req.DepartmentID,
			Floor:         req.Floor,
			HistoryStatus: historyStatus.String(),
			IsHandover:    req.IsHandover,
			Note:          req.Note,
		})
		if err != nil {
			return err
		}

		installingID, err := e.catalog.Resolve(tx, metadata.AssetInstalling)
		if err != nil {
			return err
		}
		if err := e.assets.UpdateStatus(tx, asset.ID, installingID); err != nil {
			return err
		}

		if len(req.IPAddress) > 0 {
			return e.assets.UpdateNetwork(tx, asset.ID, req.IPAddress)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.log.Info("asset assigned",
		zap.Int("asset_id", req.AssetID),
		zap.String("emp_code", empCode),
		zap.Int("history_id", historyID))
	return historyID, nil
}

// CompleteSetup marks installation finished: the asset becomes
// not-handed-over and its ledger record advances to awaiting handover.
func (e *Engine) CompleteSetup(assetCode string, empCode string, historyID int) error {
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		return e.completeSetup(tx, assetCode, empCode, historyID)
	})
	if err != nil {
		return err
	}

	e.log.Info("asset setup completed",
		zap.String("asset_code", assetCode),
		zap.String("emp_code", empCode),
		zap.Int("history_id", historyID))
	return nil
}

// CompleteSetupBatch applies CompleteSetup to every item inside one
// transaction; any failing item rolls back the whole batch.
func (e *Engine) CompleteSetupBatch(items []models.SetupItem) error {
	if len(items) == 0 {
		return custom_error.NewValidation("no setup items supplied")
	}

	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		for _, item := range items {
			if err := e.completeSetup(tx, item.AssetCode, item.EmpCode, item.HistoryID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info("asset setup batch completed", zap.Int("items", len(items)))
	return nil
}

func (e *Engine) completeSetup(tx *goqu.TxDatabase, assetCode string, empCode string, historyID int) error {
	asset, err := e.assets.LockStateByCode(tx, assetCode)
	if err != nil {
		return err
	}
	if !metadata.AssetStatus(asset.StatusName).SetupEligible() {
		return custom_error.NewPrecondition(
			"asset %s cannot complete setup while in status %s", asset.Code, asset.StatusName)
	}

	employeeID, err := e.employees.GetIDByCode(tx, empCode)
	if err != nil {
		return err
	}

	rows, err := e.ledger.LockRows(tx, models.CustodyFilter{
		EmployeeID: &employeeID,
		HistoryIDs: []int{historyID},
		OpenOnly:   true,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return custom_error.NewNotFound("custody record %d not found for employee %s", historyID, empCode)
	}
	if rows[0].AssetID != asset.ID {
		return custom_error.NewPrecondition(
			"custody record %d does not belong to asset %s", historyID, assetCode)
	}

	awaitingID, err := e.catalog.Resolve(tx, metadata.AssetAwaitingHandover)
	if err != nil {
		return err
	}
	if err := e.assets.UpdateStatus(tx, asset.ID, awaitingID); err != nil {
		return err
	}

	return e.ledger.AdvanceStatus(tx, []int{historyID}, metadata.HistoryAwaitingHandover)
}

// ConfirmHandover finishes the physical handover for a selection of
// episodes. The selection is all-or-nothing: every requested asset id and
// history id must resolve to an open awaiting-handover record owned by the
// employee.
func (e *Engine) ConfirmHandover(empCode string, req models.ConfirmHandoverRequest) ([]string, error) {
	if len(req.AssetIDs) == 0 && len(req.HistoryIDs) == 0 {
		return nil, custom_error.NewValidation("no assets selected for handover")
	}

	var codes []string
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		employeeID, err := e.employees.GetIDByCode(tx, empCode)
		if err != nil {
			return err
		}

		rows, err := e.ledger.LockRows(tx, models.CustodyFilter{
			EmployeeID: &employeeID,
			AssetIDs:   req.AssetIDs,
			HistoryIDs: req.HistoryIDs,
			Statuses:   []string{metadata.HistoryAwaitingHandover.String()},
			OpenOnly:   true,
		})
		if err != nil {
			return err
		}
		if missing := missingSelections(req.AssetIDs, req.HistoryIDs, rows); len(missing) > 0 {
			return custom_error.NewSelectionMismatch(missing)
		}

		assetIDs, historyIDs := splitRows(rows)
		states, err := e.assets.LockStates(tx, assetIDs)
		if err != nil {
			return err
		}

		inUseID, err := e.catalog.Resolve(tx, metadata.AssetInUse)
		if err != nil {
			return err
		}
		if err := e.assets.UpdateStatusBulk(tx, assetIDs, inUseID); err != nil {
			return err
		}
		if err := e.ledger.StampHandover(tx, historyIDs, req.HandoverBy, req.DepartmentID, req.Note); err != nil {
			return err
		}

		codes = assetCodes(assetIDs, states)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("handover confirmed", zap.String("emp_code", empCode), zap.Strings("assets", codes))
	return codes, nil
}

// ReturnAssets takes a selection of in-use episodes back: the assets move to
// pending deletion and the ledger records advance to returned. The records
// stay open until a later finalize or sync closes them.
func (e *Engine) ReturnAssets(empCode string, assetIDs []int) ([]string, error) {
	return e.bulkByAssetIDs(empCode, assetIDs, "assets returned",
		func(tx *goqu.TxDatabase, rows []models.LedgerRow, states map[int]models.AssetState) error {
			ids, historyIDs := splitRows(rows)

			pendingID, err := e.catalog.Resolve(tx, metadata.AssetPendingDeletion)
			if err != nil {
				return err
			}
			if err := e.assets.UpdateStatusBulk(tx, ids, pendingID); err != nil {
				return err
			}
			return e.ledger.AdvanceStatus(tx, historyIDs, metadata.HistoryReturned)
		},
		[]string{metadata.HistoryInUse.String()},
	)
}

// UnregisterAssets cancels not-yet-completed episodes. Each asset reverts to
// the state it was effectively in before the episode opened.
func (e *Engine) UnregisterAssets(empCode string, assetIDs []int) ([]string, error) {
	return e.bulkByAssetIDs(empCode, assetIDs, "assets unregistered",
		func(tx *goqu.TxDatabase, rows []models.LedgerRow, states map[int]models.AssetState) error {
			newID, err := e.catalog.Resolve(tx, metadata.AssetNew)
			if err != nil {
				return err
			}
			inUseID, err := e.catalog.Resolve(tx, metadata.AssetInUse)
			if err != nil {
				return err
			}
			pendingID, err := e.catalog.Resolve(tx, metadata.AssetPendingDeletion)
			if err != nil {
				return err
			}

			statusByAsset := make(map[int]int, len(rows))
			historyIDs := make([]int, 0, len(rows))
			for _, row := range rows {
				switch {
				case row.HistoryStatus == metadata.HistoryAllocatedPendingDeletion.String():
					statusByAsset[row.AssetID] = pendingID
				case row.IsHandover:
					statusByAsset[row.AssetID] = newID
				default:
					statusByAsset[row.AssetID] = inUseID
				}
				historyIDs = append(historyIDs, row.HistoryID)
			}

			if err := e.assets.UpdateStatusPerAsset(tx, statusByAsset); err != nil {
				return err
			}
			return e.ledger.CloseRecords(tx, historyIDs, metadata.HistoryCancelled)
		},
		[]string{
			metadata.HistoryRegistered.String(),
			metadata.HistoryAwaitingHandover.String(),
			metadata.HistoryAllocatedPendingDeletion.String(),
		},
	)
}

func (e *Engine) bulkByAssetIDs(
	empCode string,
	assetIDs []int,
	logMessage string,
	apply func(tx *goqu.TxDatabase, rows []models.LedgerRow, states map[int]models.AssetState) error,
	statuses []string,
) ([]string, error) {
	if len(assetIDs) == 0 {
		return nil, custom_error.NewValidation("no assets selected")
	}

	var codes []string
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		employeeID, err := e.employees.GetIDByCode(tx, empCode)
		if err != nil {
			return err
		}

		rows, err := e.ledger.LockRows(tx, models.CustodyFilter{
			EmployeeID: &employeeID,
			AssetIDs:   assetIDs,
			Statuses:   statuses,
			OpenOnly:   true,
		})
		if err != nil {
			return err
		}
		if missing := missingSelections(assetIDs, nil, rows); len(missing) > 0 {
			return custom_error.NewSelectionMismatch(missing)
		}

		ids, _ := splitRows(rows)
		states, err := e.assets.LockStates(tx, ids)
		if err != nil {
			return err
		}

		if err := apply(tx, rows, states); err != nil {
			return err
		}

		codes = assetCodes(ids, states)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info(logMessage, zap.String("emp_code", empCode), zap.Strings("assets", codes))
	return codes, nil
}

// AllocateForDeletion hands an asset to a custodian for decommissioning.
func (e *Engine) AllocateForDeletion(empCode string, req models.AllocateForDeletionRequest) (int, error) {
	var historyID int
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := e.assets.LockStateByID(tx, req.AssetID)
		if err != nil {
			return err
		}

		employeeID, err := e.employees.GetIDByCode(tx, empCode)
		if err != nil {
			return err
		}

		allocatedID, err := e.catalog.Resolve(tx, metadata.AssetAllocatedForDeletion)
		if err != nil {
			return err
		}
		if err := e.assets.UpdateStatus(tx, asset.ID, allocatedID); err != nil {
			return err
		}

		historyID, err = e.ledger.Insert(tx, models.NewCustodyRecord{
			AssetID:       asset.ID,
			EmployeeID:    employeeID,
			HandoverBy:    req.HandoverBy,
			DepartmentID:  req.DepartmentID,
			Floor:         req.Floor,
			HistoryStatus: metadata.HistoryAllocatedPendingDeletion.String(),
			IsHandover:    req.IsHandover,
			Note:          req.Note,
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	e.log.Info("asset allocated for deletion",
		zap.Int("asset_id", req.AssetID),
		zap.String("emp_code", empCode))
	return historyID, nil
}

// SyncAssetStatus confirms that a pending-deletion asset physically left the
// employee: open ledger records for the pair close as returned-confirmed and
// the asset is deleted.
func (e *Engine) SyncAssetStatus(assetCode string, empCode string) error {
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := e.assets.LockStateByCode(tx, assetCode)
		if err != nil {
			return err
		}
		if asset.StatusName != metadata.AssetPendingDeletion.String() {
			return custom_error.NewPrecondition(
				"asset %s cannot be confirmed deleted while in status %s", asset.Code, asset.StatusName)
		}

		employeeID, err := e.employees.GetIDByCode(tx, empCode)
		if err != nil {
			return err
		}

		if _, err := e.ledger.CloseOpenForPair(tx, asset.ID, employeeID, metadata.HistoryReturnedConfirmed); err != nil {
			return err
		}

		deletedID, err := e.catalog.Resolve(tx, metadata.AssetDeleted)
		if err != nil {
			return err
		}
		return e.assets.UpdateStatus(tx, asset.ID, deletedID)
	})
	if err != nil {
		return err
	}

	e.log.Info("asset deletion confirmed",
		zap.String("asset_code", assetCode),
		zap.String("emp_code", empCode))
	return nil
}

// FinalizeAssetDeletions sweeps pending-deletion assets whose episodes were
// returned but never closed: the assets go back to the available pool and
// the ledger records close as deleted. Returns the number of assets reset.
func (e *Engine) FinalizeAssetDeletions() (int, error) {
	var reset int
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		pendingID, err := e.catalog.Resolve(tx, metadata.AssetPendingDeletion)
		if err != nil {
			return err
		}

		assetIDs, err := e.assets.LockIDsByStatus(tx, pendingID)
		if err != nil {
			return err
		}
		if len(assetIDs) == 0 {
			return nil
		}

		rows, err := e.ledger.LockRows(tx, models.CustodyFilter{
			AssetIDs: assetIDs,
			Statuses: []string{metadata.HistoryReturned.String()},
			OpenOnly: true,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids, historyIDs := splitRows(rows)
		newID, err := e.catalog.Resolve(tx, metadata.AssetNew)
		if err != nil {
			return err
		}
		if err := e.assets.UpdateStatusBulk(tx, ids, newID); err != nil {
			return err
		}
		if err := e.ledger.CloseRecords(tx, historyIDs, metadata.HistoryDeleted); err != nil {
			return err
		}

		reset = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if reset > 0 {
		e.log.Info("asset deletions finalized", zap.Int("assets", reset))
	}
	return reset, nil
}

// ResignEmployee marks an employee as resigned. Refused while the employee
// still holds unreturned assets.
func (e *Engine) ResignEmployee(empCode string) error {
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		employee, err := e.employees.LockStateByCode(tx, empCode)
		if err != nil {
			return err
		}

		open, err := e.employees.CountOpenCustody(tx, employee.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return custom_error.NewPrecondition(
				"employee %s still holds %d unreturned assets", empCode, open)
		}

		return e.employees.SetWorkStatus(tx, empCode, metadata.WorkResigned)
	})
	if err != nil {
		return err
	}

	e.log.Info("employee resigned", zap.String("emp_code", empCode))
	return nil
}

// FinalizeEmployeeDeletions promotes every resigned employee to deleted.
func (e *Engine) FinalizeEmployeeDeletions() (int64, error) {
	var promoted int64
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		promoted, err = e.employees.PromoteResigned(tx)
		return err
	})
	if err != nil {
		return 0, err
	}

	if promoted > 0 {
		e.log.Info("employee deletions finalized", zap.Int64("employees", promoted))
	}
	return promoted, nil
}

// ForceDeleteEmployee permanently removes a resigned employee together with
// their audit rows and custody history, in dependency order.
func (e *Engine) ForceDeleteEmployee(empCode string) error {
	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		employee, err := e.employees.LockStateByCode(tx, empCode)
		if err != nil {
			return err
		}
		if employee.StatusWork != metadata.WorkResigned.String() {
			return custom_error.NewPrecondition(
				"employee %s must be resigned before force delete, current status: %s",
				empCode, employee.StatusWork)
		}

		if err := e.employees.DeleteActivityLogs(tx, employee.ID); err != nil {
			return err
		}
		if err := e.employees.DeleteLedgerRows(tx, employee.ID); err != nil {
			return err
		}
		return e.employees.DeleteEmployee(tx, employee.ID)
	})
	if err != nil {
		return err
	}

	e.log.Info("employee force deleted", zap.String("emp_code", empCode))
	return nil
}

// missingSelections compares the requested asset and history ids against the
// resolved ledger rows. Anything unresolved fails the whole selection.
func missingSelections(assetIDs []int, historyIDs []int, rows []models.LedgerRow) []int {
	resolvedAssets := make(map[int]bool, len(rows))
	resolvedHistories := make(map[int]bool, len(rows))
	for _, row := range rows {
		resolvedAssets[row.AssetID] = true
		resolvedHistories[row.HistoryID] = true
	}

	var missing []int
	for _, id := range assetIDs {
		if !resolvedAssets[id] {
			missing = append(missing, id)
		}
	}
	for _, id := range historyIDs {
		if !resolvedHistories[id] {
			missing = append(missing, id)
		}
	}
	sort.Ints(missing)
	return missing
}

func splitRows(rows []models.LedgerRow) (assetIDs []int, historyIDs []int) {
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		if !seen[row.AssetID] {
			seen[row.AssetID] = true
			assetIDs = append(assetIDs, row.AssetID)
		}
		historyIDs = append(historyIDs, row.HistoryID)
	}
	return assetIDs, historyIDs
}

func assetCodes(assetIDs []int, states map[int]models.AssetState) []string {
	codes := make([]string, 0, len(assetIDs))
	for _, id := range assetIDs {
		if state, ok := states[id]; ok {
			codes = append(codes, state.Code)
		}
	}
	return codes
}
