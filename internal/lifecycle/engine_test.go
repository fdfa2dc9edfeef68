package lifecycle

import (
	"errors"
	"testing"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type runnerMock struct{ mock.Mock }

func (m *runnerMock) InTransaction(fn func(tx *goqu.TxDatabase) error) error {
	m.Called()
	return fn(nil)
}

type assetStoreMock struct{ mock.Mock }

func (m *assetStoreMock) LockStateByID(tx *goqu.TxDatabase, assetID int) (*models.AssetState, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetState), args.Error(1)
}

func (m *assetStoreMock) LockStateByCode(tx *goqu.TxDatabase, assetCode string) (*models.AssetState, error) {
	args := m.Called(assetCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetState), args.Error(1)
}

func (m *assetStoreMock) LockStates(tx *goqu.TxDatabase, assetIDs []int) (map[int]models.AssetState, error) {
	args := m.Called(assetIDs)
	return args.Get(0).(map[int]models.AssetState), args.Error(1)
}

func (m *assetStoreMock) LockIDsByStatus(tx *goqu.TxDatabase, statusID int) ([]int, error) {
	args := m.Called(statusID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *assetStoreMock) Insert(tx *goqu.TxDatabase, req models.RegisterAssetRequest, statusID int) (int, error) {
	args := m.Called(req, statusID)
	return args.Int(0), args.Error(1)
}

func (m *assetStoreMock) UpdateStatus(tx *goqu.TxDatabase, assetID int, statusID int) error {
	return m.Called(assetID, statusID).Error(0)
}

func (m *assetStoreMock) UpdateStatusBulk(tx *goqu.TxDatabase, assetIDs []int, statusID int) error {
	return m.Called(assetIDs, statusID).Error(0)
}

func (m *assetStoreMock) UpdateStatusPerAsset(tx *goqu.TxDatabase, statusByAsset map[int]int) error {
	return m.Called(statusByAsset).Error(0)
}

func (m *assetStoreMock) UpdateNetwork(tx *goqu.TxDatabase, assetID int, ipAddresses []string) error {
	return m.Called(assetID, ipAddresses).Error(0)
}

type ledgerStoreMock struct{ mock.Mock }

func (m *ledgerStoreMock) Insert(tx *goqu.TxDatabase, rec models.NewCustodyRecord) (int, error) {
	args := m.Called(rec)
	return args.Int(0), args.Error(1)
}

func (m *ledgerStoreMock) LockRows(tx *goqu.TxDatabase, filter models.CustodyFilter) ([]models.LedgerRow, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.LedgerRow), args.Error(1)
}

func (m *ledgerStoreMock) AdvanceStatus(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error {
	return m.Called(historyIDs, status).Error(0)
}

func (m *ledgerStoreMock) StampHandover(tx *goqu.TxDatabase, historyIDs []int, handoverBy int, departmentID int, note string) error {
	return m.Called(historyIDs, handoverBy, departmentID, note).Error(0)
}

func (m *ledgerStoreMock) CloseRecords(tx *goqu.TxDatabase, historyIDs []int, status metadata.HistoryStatus) error {
	return m.Called(historyIDs, status).Error(0)
}

func (m *ledgerStoreMock) CloseOpenForPair(tx *goqu.TxDatabase, assetID int, employeeID int, status metadata.HistoryStatus) (int64, error) {
	args := m.Called(assetID, employeeID, status)
	return args.Get(0).(int64), args.Error(1)
}

type employeeStoreMock struct{ mock.Mock }

func (m *employeeStoreMock) GetIDByCode(tx *goqu.TxDatabase, empCode string) (int, error) {
	args := m.Called(empCode)
	return args.Int(0), args.Error(1)
}

func (m *employeeStoreMock) LockStateByCode(tx *goqu.TxDatabase, empCode string) (*models.EmployeeState, error) {
	args := m.Called(empCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeState), args.Error(1)
}

func (m *employeeStoreMock) CountOpenCustody(tx *goqu.TxDatabase, employeeID int) (int, error) {
	args := m.Called(employeeID)
	return args.Int(0), args.Error(1)
}

func (m *employeeStoreMock) SetWorkStatus(tx *goqu.TxDatabase, empCode string, status metadata.WorkStatus) error {
	return m.Called(empCode, status).Error(0)
}

func (m *employeeStoreMock) PromoteResigned(tx *goqu.TxDatabase) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *employeeStoreMock) DeleteActivityLogs(tx *goqu.TxDatabase, employeeID int) error {
	return m.Called(employeeID).Error(0)
}

func (m *employeeStoreMock) DeleteLedgerRows(tx *goqu.TxDatabase, employeeID int) error {
	return m.Called(employeeID).Error(0)
}

func (m *employeeStoreMock) DeleteEmployee(tx *goqu.TxDatabase, employeeID int) error {
	return m.Called(employeeID).Error(0)
}

type catalogMock struct{ mock.Mock }

func (m *catalogMock) Resolve(tx *goqu.TxDatabase, status metadata.AssetStatus) (int, error) {
	args := m.Called(status)
	return args.Int(0), args.Error(1)
}

type engineFixture struct {
	runner    *runnerMock
	assets    *assetStoreMock
	ledger    *ledgerStoreMock
	employees *employeeStoreMock
	catalog   *catalogMock
	engine    *Engine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		runner:    &runnerMock{},
		assets:    &assetStoreMock{},
		ledger:    &ledgerStoreMock{},
		employees: &employeeStoreMock{},
		catalog:   &catalogMock{},
	}
	f.runner.On("InTransaction").Return(nil)
	f.engine = NewEngine(f.runner, f.assets, f.ledger, f.employees, f.catalog, zap.NewNop())
	return f
}

func (f *engineFixture) assertNoMutations(t *testing.T) {
	f.assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	f.assets.AssertNotCalled(t, "UpdateStatusBulk", mock.Anything, mock.Anything)
	f.assets.AssertNotCalled(t, "UpdateStatusPerAsset", mock.Anything)
	f.ledger.AssertNotCalled(t, "Insert", mock.Anything)
	f.ledger.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "StampHandover", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "CloseRecords", mock.Anything, mock.Anything)
}

func TestAssignAssetRejectsIneligibleStatus(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByID", 7).Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "installing",
	}, nil)

	_, err := f.engine.AssignAsset("E100", models.AssignAssetRequest{AssetID: 7, HandoverBy: 1})

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.assertNoMutations(t)
}

func TestAssignAssetOpensEpisodeAndMovesAssetToInstalling(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByID", 7).Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "new",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("Insert", mock.MatchedBy(func(rec models.NewCustodyRecord) bool {
		return rec.AssetID == 7 && rec.EmployeeID == 42 && rec.HistoryStatus == "registered"
	})).Return(901, nil)
	f.catalog.On("Resolve", metadata.AssetInstalling).Return(2, nil)
	f.assets.On("UpdateStatus", 7, 2).Return(nil)

	historyID, err := f.engine.AssignAsset("E100", models.AssignAssetRequest{AssetID: 7, HandoverBy: 1})

	assert.NoError(t, err)
	assert.Equal(t, 901, historyID)
	f.assets.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestAssignAssetRejectsUnknownHistoryStatus(t *testing.T) {
	f := newEngineFixture()

	_, err := f.engine.AssignAsset("E100", models.AssignAssetRequest{
		AssetID:       7,
		HandoverBy:    1,
		HistoryStatus: "borrowed",
	})

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCompleteSetupRequiresInstallableStatus(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByCode", "IT-0007").Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "in_use",
	}, nil)

	err := f.engine.CompleteSetup("IT-0007", "E100", 901)

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.assertNoMutations(t)
}

func TestCompleteSetupRejectsRecordOfAnotherAsset(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByCode", "IT-0007").Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "installing",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 8, HistoryStatus: "registered"},
	}, nil)

	err := f.engine.CompleteSetup("IT-0007", "E100", 901)

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything)
}

func TestCompleteSetupAdvancesAssetAndLedger(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByCode", "IT-0007").Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "installing",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.MatchedBy(func(filter models.CustodyFilter) bool {
		return filter.OpenOnly && len(filter.HistoryIDs) == 1 && filter.HistoryIDs[0] == 901
	})).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 7, HistoryStatus: "registered"},
	}, nil)
	f.catalog.On("Resolve", metadata.AssetAwaitingHandover).Return(3, nil)
	f.assets.On("UpdateStatus", 7, 3).Return(nil)
	f.ledger.On("AdvanceStatus", []int{901}, metadata.HistoryAwaitingHandover).Return(nil)

	err := f.engine.CompleteSetup("IT-0007", "E100", 901)

	assert.NoError(t, err)
	f.assets.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestCompleteSetupBatchRejectsEmptyItems(t *testing.T) {
	f := newEngineFixture()

	err := f.engine.CompleteSetupBatch(nil)

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCompleteSetupBatchAppliesEveryItemInOneTransaction(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.catalog.On("Resolve", metadata.AssetAwaitingHandover).Return(3, nil)
	f.assets.On("LockStateByCode", "IT-0001").Return(&models.AssetState{
		ID: 1, Code: "IT-0001", StatusName: "installing",
	}, nil)
	f.assets.On("LockStateByCode", "IT-0002").Return(&models.AssetState{
		ID: 2, Code: "IT-0002", StatusName: "installing",
	}, nil)
	f.ledger.On("LockRows", mock.MatchedBy(func(filter models.CustodyFilter) bool {
		return len(filter.HistoryIDs) == 1 && filter.HistoryIDs[0] == 901
	})).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 1, HistoryStatus: "registered"},
	}, nil)
	f.ledger.On("LockRows", mock.MatchedBy(func(filter models.CustodyFilter) bool {
		return len(filter.HistoryIDs) == 1 && filter.HistoryIDs[0] == 902
	})).Return([]models.LedgerRow{
		{HistoryID: 902, AssetID: 2, HistoryStatus: "registered"},
	}, nil)
	f.assets.On("UpdateStatus", 1, 3).Return(nil)
	f.assets.On("UpdateStatus", 2, 3).Return(nil)
	f.ledger.On("AdvanceStatus", []int{901}, metadata.HistoryAwaitingHandover).Return(nil)
	f.ledger.On("AdvanceStatus", []int{902}, metadata.HistoryAwaitingHandover).Return(nil)

	err := f.engine.CompleteSetupBatch([]models.SetupItem{
		{EmpCode: "E100", AssetCode: "IT-0001", HistoryID: 901},
		{EmpCode: "E100", AssetCode: "IT-0002", HistoryID: 902},
	})

	assert.NoError(t, err)
	f.runner.AssertNumberOfCalls(t, "InTransaction", 1)
	f.ledger.AssertExpectations(t)
	f.assets.AssertExpectations(t)
}

func TestAllocateForDeletionMovesAssetAndOpensDisposalEpisode(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByID", 3).Return(&models.AssetState{
		ID: 3, Code: "IT-0003", StatusName: "in_use",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.catalog.On("Resolve", metadata.AssetAllocatedForDeletion).Return(7, nil)
	f.assets.On("UpdateStatus", 3, 7).Return(nil)
	f.ledger.On("Insert", mock.MatchedBy(func(rec models.NewCustodyRecord) bool {
		return rec.AssetID == 3 && rec.EmployeeID == 42 &&
			rec.HistoryStatus == "allocated_pending_deletion"
	})).Return(950, nil)

	historyID, err := f.engine.AllocateForDeletion("E100", models.AllocateForDeletionRequest{
		AssetID:    3,
		HandoverBy: 5,
		Floor:      "12F",
	})

	assert.NoError(t, err)
	assert.Equal(t, 950, historyID)
	f.assets.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestConfirmHandoverFailsWholeSelectionOnPartialMatch(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 11, AssetID: 1, HistoryStatus: "awaiting_handover"},
	}, nil)

	_, err := f.engine.ConfirmHandover("E100", models.ConfirmHandoverRequest{
		AssetIDs:     []int{1, 2, 3},
		HandoverBy:   5,
		DepartmentID: 9,
	})

	var mismatch *custom_error.SelectionMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []int{2, 3}, mismatch.Missing)
	f.assertNoMutations(t)
}

func TestConfirmHandoverStampsActorAndMovesAssetsInUse(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 11, AssetID: 1, HistoryStatus: "awaiting_handover"},
		{HistoryID: 12, AssetID: 2, HistoryStatus: "awaiting_handover"},
	}, nil)
	f.assets.On("LockStates", []int{1, 2}).Return(map[int]models.AssetState{
		1: {ID: 1, Code: "IT-0001"},
		2: {ID: 2, Code: "IT-0002"},
	}, nil)
	f.catalog.On("Resolve", metadata.AssetInUse).Return(4, nil)
	f.assets.On("UpdateStatusBulk", []int{1, 2}, 4).Return(nil)
	f.ledger.On("StampHandover", []int{11, 12}, 5, 9, "desk move").Return(nil)

	codes, err := f.engine.ConfirmHandover("E100", models.ConfirmHandoverRequest{
		AssetIDs:     []int{1, 2},
		HandoverBy:   5,
		DepartmentID: 9,
		Note:         "desk move",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"IT-0001", "IT-0002"}, codes)
	f.ledger.AssertExpectations(t)
	f.assets.AssertExpectations(t)
}

func TestReturnAssetsMovesAssetsToPendingDeletion(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.MatchedBy(func(filter models.CustodyFilter) bool {
		return filter.OpenOnly &&
			len(filter.Statuses) == 1 && filter.Statuses[0] == "in_use"
	})).Return([]models.LedgerRow{
		{HistoryID: 21, AssetID: 3, HistoryStatus: "in_use"},
	}, nil)
	f.assets.On("LockStates", []int{3}).Return(map[int]models.AssetState{
		3: {ID: 3, Code: "IT-0003"},
	}, nil)
	f.catalog.On("Resolve", metadata.AssetPendingDeletion).Return(5, nil)
	f.assets.On("UpdateStatusBulk", []int{3}, 5).Return(nil)
	f.ledger.On("AdvanceStatus", []int{21}, metadata.HistoryReturned).Return(nil)

	codes, err := f.engine.ReturnAssets("E100", []int{3})

	assert.NoError(t, err)
	assert.Equal(t, []string{"IT-0003"}, codes)
	// returned records stay open; nothing must close them here
	f.ledger.AssertNotCalled(t, "CloseRecords", mock.Anything, mock.Anything)
}

func TestReturnAssetsRejectsEmptySelection(t *testing.T) {
	f := newEngineFixture()

	_, err := f.engine.ReturnAssets("E100", nil)

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUnregisterAssetsRevertsEachAssetPerEpisodeKind(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 31, AssetID: 1, HistoryStatus: "registered", IsHandover: false},
		{HistoryID: 32, AssetID: 2, HistoryStatus: "awaiting_handover", IsHandover: true},
		{HistoryID: 33, AssetID: 3, HistoryStatus: "allocated_pending_deletion", IsHandover: false},
	}, nil)
	f.assets.On("LockStates", []int{1, 2, 3}).Return(map[int]models.AssetState{
		1: {ID: 1, Code: "IT-0001"},
		2: {ID: 2, Code: "IT-0002"},
		3: {ID: 3, Code: "IT-0003"},
	}, nil)
	f.catalog.On("Resolve", metadata.AssetNew).Return(1, nil)
	f.catalog.On("Resolve", metadata.AssetInUse).Return(4, nil)
	f.catalog.On("Resolve", metadata.AssetPendingDeletion).Return(5, nil)
	f.assets.On("UpdateStatusPerAsset", map[int]int{1: 4, 2: 1, 3: 5}).Return(nil)
	f.ledger.On("CloseRecords", []int{31, 32, 33}, metadata.HistoryCancelled).Return(nil)

	codes, err := f.engine.UnregisterAssets("E100", []int{1, 2, 3})

	assert.NoError(t, err)
	assert.Equal(t, []string{"IT-0001", "IT-0002", "IT-0003"}, codes)
	f.assets.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestSyncAssetStatusRequiresPendingDeletion(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByCode", "IT-0003").Return(&models.AssetState{
		ID: 3, Code: "IT-0003", StatusName: "in_use",
	}, nil)

	err := f.engine.SyncAssetStatus("IT-0003", "E100")

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.assertNoMutations(t)
}

func TestSyncAssetStatusClosesPairAndDeletesAsset(t *testing.T) {
	f := newEngineFixture()
	f.assets.On("LockStateByCode", "IT-0003").Return(&models.AssetState{
		ID: 3, Code: "IT-0003", StatusName: "pending_deletion",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("CloseOpenForPair", 3, 42, metadata.HistoryReturnedConfirmed).Return(int64(1), nil)
	f.catalog.On("Resolve", metadata.AssetDeleted).Return(6, nil)
	f.assets.On("UpdateStatus", 3, 6).Return(nil)

	err := f.engine.SyncAssetStatus("IT-0003", "E100")

	assert.NoError(t, err)
	f.ledger.AssertExpectations(t)
	f.assets.AssertExpectations(t)
}

func TestFinalizeAssetDeletionsResetsReturnedAssets(t *testing.T) {
	f := newEngineFixture()
	f.catalog.On("Resolve", metadata.AssetPendingDeletion).Return(5, nil)
	f.catalog.On("Resolve", metadata.AssetNew).Return(1, nil)
	f.assets.On("LockIDsByStatus", 5).Return([]int{3, 4}, nil)
	f.ledger.On("LockRows", mock.MatchedBy(func(filter models.CustodyFilter) bool {
		return filter.OpenOnly && len(filter.AssetIDs) == 2
	})).Return([]models.LedgerRow{
		{HistoryID: 41, AssetID: 3, HistoryStatus: "returned"},
	}, nil)
	f.assets.On("UpdateStatusBulk", []int{3}, 1).Return(nil)
	f.ledger.On("CloseRecords", []int{41}, metadata.HistoryDeleted).Return(nil)

	reset, err := f.engine.FinalizeAssetDeletions()

	assert.NoError(t, err)
	assert.Equal(t, 1, reset)
}

func TestResignEmployeeBlockedByOpenCustody(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("LockStateByCode", "E100").Return(&models.EmployeeState{
		ID: 42, EmpCode: "E100", StatusWork: "Working",
	}, nil)
	f.employees.On("CountOpenCustody", 42).Return(2, nil)

	err := f.engine.ResignEmployee("E100")

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.employees.AssertNotCalled(t, "SetWorkStatus", mock.Anything, mock.Anything)
}

func TestForceDeleteEmployeeRequiresResignedStatus(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("LockStateByCode", "E100").Return(&models.EmployeeState{
		ID: 42, EmpCode: "E100", StatusWork: "Working",
	}, nil)

	err := f.engine.ForceDeleteEmployee("E100")

	var precondition *custom_error.PreconditionError
	assert.ErrorAs(t, err, &precondition)
	f.employees.AssertNotCalled(t, "DeleteEmployee", mock.Anything)
}

func TestForceDeleteEmployeeCascadesInOrder(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("LockStateByCode", "E100").Return(&models.EmployeeState{
		ID: 42, EmpCode: "E100", StatusWork: "Resigned",
	}, nil)

	var order []string
	f.employees.On("DeleteActivityLogs", 42).Run(func(mock.Arguments) {
		order = append(order, "activity_logs")
	}).Return(nil)
	f.employees.On("DeleteLedgerRows", 42).Run(func(mock.Arguments) {
		order = append(order, "assets_history")
	}).Return(nil)
	f.employees.On("DeleteEmployee", 42).Run(func(mock.Arguments) {
		order = append(order, "employees")
	}).Return(nil)

	err := f.engine.ForceDeleteEmployee("E100")

	assert.NoError(t, err)
	assert.Equal(t, []string{"activity_logs", "assets_history", "employees"}, order)
}

func TestAssetLifecycleRoundTrip(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)

	var ledgerPath []string
	recordStatus := func(status string) func(mock.Arguments) {
		return func(mock.Arguments) { ledgerPath = append(ledgerPath, status) }
	}

	f.catalog.On("Resolve", metadata.AssetNew).Return(1, nil)
	f.assets.On("Insert", mock.Anything, 1).Return(7, nil)
	assetID, err := f.engine.RegisterAsset(models.RegisterAssetRequest{Code: "IT-0007", Name: "Laptop"})
	assert.NoError(t, err)
	assert.Equal(t, 7, assetID)

	f.assets.On("LockStateByID", 7).Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "new",
	}, nil)
	f.ledger.On("Insert", mock.Anything).Run(func(args mock.Arguments) {
		ledgerPath = append(ledgerPath, args.Get(0).(models.NewCustodyRecord).HistoryStatus)
	}).Return(901, nil)
	f.catalog.On("Resolve", metadata.AssetInstalling).Return(2, nil)
	f.assets.On("UpdateStatus", 7, 2).Return(nil)
	historyID, err := f.engine.AssignAsset("E100", models.AssignAssetRequest{AssetID: 7, HandoverBy: 5})
	assert.NoError(t, err)
	assert.Equal(t, 901, historyID)

	f.assets.On("LockStateByCode", "IT-0007").Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "installing",
	}, nil).Once()
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 7, HistoryStatus: "registered"},
	}, nil).Once()
	f.catalog.On("Resolve", metadata.AssetAwaitingHandover).Return(3, nil)
	f.assets.On("UpdateStatus", 7, 3).Return(nil)
	f.ledger.On("AdvanceStatus", []int{901}, metadata.HistoryAwaitingHandover).
		Run(recordStatus("awaiting_handover")).Return(nil)
	assert.NoError(t, f.engine.CompleteSetup("IT-0007", "E100", historyID))

	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 7, HistoryStatus: "awaiting_handover"},
	}, nil).Once()
	f.assets.On("LockStates", []int{7}).Return(map[int]models.AssetState{
		7: {ID: 7, Code: "IT-0007"},
	}, nil)
	f.catalog.On("Resolve", metadata.AssetInUse).Return(4, nil)
	f.assets.On("UpdateStatusBulk", []int{7}, 4).Return(nil)
	f.ledger.On("StampHandover", []int{901}, 5, 9, "").
		Run(recordStatus("in_use")).Return(nil)
	codes, err := f.engine.ConfirmHandover("E100", models.ConfirmHandoverRequest{
		HistoryIDs:   []int{901},
		HandoverBy:   5,
		DepartmentID: 9,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"IT-0007"}, codes)

	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 901, AssetID: 7, HistoryStatus: "in_use"},
	}, nil).Once()
	f.catalog.On("Resolve", metadata.AssetPendingDeletion).Return(5, nil)
	f.assets.On("UpdateStatusBulk", []int{7}, 5).Return(nil)
	f.ledger.On("AdvanceStatus", []int{901}, metadata.HistoryReturned).
		Run(recordStatus("returned")).Return(nil)
	_, err = f.engine.ReturnAssets("E100", []int{7})
	assert.NoError(t, err)

	f.assets.On("LockStateByCode", "IT-0007").Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "pending_deletion",
	}, nil).Once()
	f.ledger.On("CloseOpenForPair", 7, 42, metadata.HistoryReturnedConfirmed).
		Run(recordStatus("returned_confirmed")).Return(int64(1), nil)
	f.catalog.On("Resolve", metadata.AssetDeleted).Return(6, nil)
	f.assets.On("UpdateStatus", 7, 6).Return(nil)
	assert.NoError(t, f.engine.SyncAssetStatus("IT-0007", "E100"))

	assert.Equal(t, []string{
		"registered", "awaiting_handover", "in_use", "returned", "returned_confirmed",
	}, ledgerPath)
}

func TestEngineRollsBackWhenAStepFails(t *testing.T) {
	f := newEngineFixture()
	boom := errors.New("write failed")
	f.assets.On("LockStateByID", 7).Return(&models.AssetState{
		ID: 7, Code: "IT-0007", StatusName: "new",
	}, nil)
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("Insert", mock.Anything).Return(0, boom)

	_, err := f.engine.AssignAsset("E100", models.AssignAssetRequest{AssetID: 7, HandoverBy: 1})

	assert.ErrorIs(t, err, boom)
	f.assets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
