package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAssetStatusRejectsUnknownValues(t *testing.T) {
	for _, value := range []string{"", "NEW", "unknown", "in use"} {
		_, err := NewAssetStatus(value)
		assert.Error(t, err, value)
	}
}

func TestNewAssetStatusAcceptsCatalogValues(t *testing.T) {
	for _, value := range []string{
		"new", "installing", "not_handed_over", "in_use",
		"pending_deletion", "deleted", "allocated_for_deletion",
	} {
		status, err := NewAssetStatus(value)
		assert.NoError(t, err)
		assert.Equal(t, value, status.String())
	}
}

func TestAssetStatusAssignable(t *testing.T) {
	assert.True(t, AssetNew.Assignable())
	assert.True(t, AssetPendingDeletion.Assignable())
	assert.True(t, AssetInUse.Assignable())

	assert.False(t, AssetInstalling.Assignable())
	assert.False(t, AssetAwaitingHandover.Assignable())
	assert.False(t, AssetDeleted.Assignable())
	assert.False(t, AssetAllocatedForDeletion.Assignable())
}

func TestAssetStatusSetupEligible(t *testing.T) {
	assert.True(t, AssetInstalling.SetupEligible())
	assert.True(t, AssetAllocatedForDeletion.SetupEligible())

	assert.False(t, AssetNew.SetupEligible())
	assert.False(t, AssetInUse.SetupEligible())
	assert.False(t, AssetPendingDeletion.SetupEligible())
}

func TestNewHistoryStatusRejectsUnknownValues(t *testing.T) {
	_, err := NewHistoryStatus("handed_over")
	assert.Error(t, err)

	_, err = NewHistoryStatus("")
	assert.Error(t, err)
}

func TestHistoryStatusUnregisterable(t *testing.T) {
	assert.True(t, HistoryRegistered.Unregisterable())
	assert.True(t, HistoryAwaitingHandover.Unregisterable())
	assert.True(t, HistoryAllocatedPendingDeletion.Unregisterable())

	assert.False(t, HistoryInUse.Unregisterable())
	assert.False(t, HistoryReturned.Unregisterable())
	assert.False(t, HistoryCancelled.Unregisterable())
}

func TestNewWorkStatus(t *testing.T) {
	status, err := NewWorkStatus("Working")
	assert.NoError(t, err)
	assert.Equal(t, WorkWorking, status)

	_, err = NewWorkStatus("working")
	assert.Error(t, err)
}
