package lifecycle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"custodian/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(f *engineFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewHandler(f.engine, nil, nil)
	router.PUT("/employees/:emp_code/assets/return", handler.ReturnAssets)
	return router
}

func TestReturnAssetsEndpointRejectsPartialSelection(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 21, AssetID: 3, HistoryStatus: "in_use"},
	}, nil)

	router := newTestRouter(f)
	body, _ := json.Marshal(gin.H{"asset_ids": []int{3, 4}})
	req := httptest.NewRequest(http.MethodPut, "/employees/E100/assets/return", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var response struct {
		Error      string `json:"error"`
		MissingIDs []int  `json:"missing_ids"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, []int{4}, response.MissingIDs)
}

func TestReturnAssetsEndpointReturnsAssetCodes(t *testing.T) {
	f := newEngineFixture()
	f.employees.On("GetIDByCode", "E100").Return(42, nil)
	f.ledger.On("LockRows", mock.Anything).Return([]models.LedgerRow{
		{HistoryID: 21, AssetID: 3, HistoryStatus: "in_use"},
	}, nil)
	f.assets.On("LockStates", []int{3}).Return(map[int]models.AssetState{
		3: {ID: 3, Code: "IT-0003"},
	}, nil)
	f.catalog.On("Resolve", mock.Anything).Return(5, nil)
	f.assets.On("UpdateStatusBulk", []int{3}, 5).Return(nil)
	f.ledger.On("AdvanceStatus", []int{21}, mock.Anything).Return(nil)

	router := newTestRouter(f)
	body, _ := json.Marshal(gin.H{"asset_ids": []int{3}})
	req := httptest.NewRequest(http.MethodPut, "/employees/E100/assets/return", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Assets []string `json:"assets"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, []string{"IT-0003"}, response.Assets)
}
