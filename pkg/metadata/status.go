package metadata

import "fmt"

// AssetStatus is the closed set of states an asset can hold. Every value maps
// to a seeded row in the asset_statuses catalog table.
type AssetStatus string

const (
	AssetNew                  AssetStatus = "new"
	AssetInstalling           AssetStatus = "installing"
	AssetAwaitingHandover     AssetStatus = "not_handed_over"
	AssetInUse                AssetStatus = "in_use"
	AssetPendingDeletion      AssetStatus = "pending_deletion"
	AssetDeleted              AssetStatus = "deleted"
	AssetAllocatedForDeletion AssetStatus = "allocated_for_deletion"
)

func NewAssetStatus(value string) (AssetStatus, error) {
	status := AssetStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid asset status: %s", value)
	}
	return status, nil
}

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetNew, AssetInstalling, AssetAwaitingHandover, AssetInUse,
		AssetPendingDeletion, AssetDeleted, AssetAllocatedForDeletion:
		return true
	default:
		return false
	}
}

func (s AssetStatus) String() string {
	return string(s)
}

// Assignable reports whether an asset in this state may be assigned to an
// employee.
func (s AssetStatus) Assignable() bool {
	switch s {
	case AssetNew, AssetPendingDeletion, AssetInUse:
		return true
	default:
		return false
	}
}

// SetupEligible reports whether an asset in this state may complete setup.
// allocated_for_deletion is included so devices slated for disposal can be
// reinstalled before they are finally removed.
func (s AssetStatus) SetupEligible() bool {
	return s == AssetInstalling || s == AssetAllocatedForDeletion
}

// HistoryStatus is the closed set of states a custody ledger record can hold.
// Persisted as plain strings on assets_history rows.
type HistoryStatus string

const (
	HistoryAssigned                 HistoryStatus = "assigned"
	HistoryRegistered               HistoryStatus = "registered"
	HistoryAwaitingHandover         HistoryStatus = "awaiting_handover"
	HistoryInUse                    HistoryStatus = "in_use"
	HistoryReturned                 HistoryStatus = "returned"
	HistoryReturnedConfirmed        HistoryStatus = "returned_confirmed"
	HistoryCancelled                HistoryStatus = "cancelled"
	HistoryAllocatedPendingDeletion HistoryStatus = "allocated_pending_deletion"
	HistoryDeleted                  HistoryStatus = "deleted"
)

func NewHistoryStatus(value string) (HistoryStatus, error) {
	status := HistoryStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid history status: %s", value)
	}
	return status, nil
}

func (s HistoryStatus) IsValid() bool {
	switch s {
	case HistoryAssigned, HistoryRegistered, HistoryAwaitingHandover,
		HistoryInUse, HistoryReturned, HistoryReturnedConfirmed,
		HistoryCancelled, HistoryAllocatedPendingDeletion, HistoryDeleted:
		return true
	default:
		return false
	}
}

func (s HistoryStatus) String() string {
	return string(s)
}

// Unregisterable reports whether an open ledger record in this state can be
// cancelled by the unregister operation.
func (s HistoryStatus) Unregisterable() bool {
	switch s {
	case HistoryRegistered, HistoryAwaitingHandover, HistoryAllocatedPendingDeletion:
		return true
	default:
		return false
	}
}

// WorkStatus is the employee parallel lifecycle: Working -> Resigned -> Deleted.
type WorkStatus string

const (
	WorkWorking  WorkStatus = "Working"
	WorkResigned WorkStatus = "Resigned"
	WorkDeleted  WorkStatus = "Deleted"
)

func NewWorkStatus(value string) (WorkStatus, error) {
	status := WorkStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid work status: %s", value)
	}
	return status, nil
}

func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkWorking, WorkResigned, WorkDeleted:
		return true
	default:
		return false
	}
}

func (s WorkStatus) String() string {
	return string(s)
}
