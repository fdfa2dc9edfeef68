package lifecycle

import (
	"errors"
	"net/http"

	"custodian/internal/assets"
	"custodian/pkg/activitylog"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/models"
	"custodian/pkg/security"

	"github.com/gin-gonic/gin"
)

// Handler exposes the lifecycle transitions over HTTP. Reads after a commit
// go through the registry repository; the engine only returns identifiers.
type Handler struct {
	engine      *Engine
	registry    *assets.AssetsRepository
	activityLog *activitylog.ActivityLog
}

func NewHandler(engine *Engine, registry *assets.AssetsRepository, activityLog *activitylog.ActivityLog) *Handler {
	return &Handler{
		engine:      engine,
		registry:    registry,
		activityLog: activityLog,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/assets", h.RegisterAsset)
	router.POST("/employees/:emp_code/assets", h.AssignAsset)
	router.PUT("/employees/:emp_code/assets/:asset_code/setup", h.CompleteSetup)
	router.PUT("/assets/setup-batch", h.CompleteSetupBatch)
	router.PUT("/employees/:emp_code/assets/handover", h.ConfirmHandover)
	router.PUT("/employees/:emp_code/assets/return", h.ReturnAssets)
	router.PUT("/employees/:emp_code/assets/unregister", h.UnregisterAssets)
	router.POST("/employees/:emp_code/assets/allocate-deletion", h.AllocateForDeletion)
	router.PUT("/employees/:emp_code/assets/:asset_code/sync", h.SyncAssetStatus)
	router.POST("/assets/finalize-deletions", h.FinalizeAssetDeletions)
}

func (h *Handler) RegisterAsset(c *gin.Context) {
	var req models.RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	assetID, err := h.engine.RegisterAsset(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	asset, err := h.registry.GetAsset(assetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	go h.activityLog.Log("register", security.ActorID(c), map[string]interface{}{
		"asset_code": asset.Code,
		"asset_name": asset.Name,
	}, asset)

	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) AssignAsset(c *gin.Context) {
	empCode := c.Param("emp_code")

	var req models.AssignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	historyID, err := h.engine.AssignAsset(empCode, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	asset, err := h.registry.GetAsset(req.AssetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	go h.activityLog.Log("assign", security.ActorID(c), map[string]interface{}{
		"asset_code": asset.Code,
		"emp_code":   empCode,
		"history_id": historyID,
	}, asset)

	c.JSON(http.StatusCreated, gin.H{"history_id": historyID, "asset": asset})
}

func (h *Handler) CompleteSetup(c *gin.Context) {
	empCode := c.Param("emp_code")
	assetCode := c.Param("asset_code")

	var req struct {
		HistoryID int `json:"history_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.engine.CompleteSetup(assetCode, empCode, req.HistoryID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setup completed", "asset_code": assetCode})
}

func (h *Handler) CompleteSetupBatch(c *gin.Context) {
	var req struct {
		Items []models.SetupItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.engine.CompleteSetupBatch(req.Items); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setup completed", "count": len(req.Items)})
}

func (h *Handler) ConfirmHandover(c *gin.Context) {
	empCode := c.Param("emp_code")

	var req models.ConfirmHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	codes, err := h.engine.ConfirmHandover(empCode, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Handover confirmed", "assets": codes})
}

func (h *Handler) ReturnAssets(c *gin.Context) {
	h.bulkSelection(c, "Assets returned", h.engine.ReturnAssets)
}

func (h *Handler) UnregisterAssets(c *gin.Context) {
	h.bulkSelection(c, "Assets unregistered", h.engine.UnregisterAssets)
}

func (h *Handler) bulkSelection(c *gin.Context, message string, op func(string, []int) ([]string, error)) {
	empCode := c.Param("emp_code")

	var req models.AssetSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	codes, err := op(empCode, req.AssetIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "assets": codes})
}

func (h *Handler) AllocateForDeletion(c *gin.Context) {
	empCode := c.Param("emp_code")

	var req models.AllocateForDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	historyID, err := h.engine.AllocateForDeletion(empCode, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Asset allocated for deletion", "history_id": historyID})
}

func (h *Handler) SyncAssetStatus(c *gin.Context) {
	empCode := c.Param("emp_code")
	assetCode := c.Param("asset_code")

	if err := h.engine.SyncAssetStatus(assetCode, empCode); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deletion confirmed", "asset_code": assetCode})
}

func (h *Handler) FinalizeAssetDeletions(c *gin.Context) {
	reset, err := h.engine.FinalizeAssetDeletions()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deletions finalized", "count": reset})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	body := gin.H{"error": custom_error.PublicMessage(err)}

	var mismatch *custom_error.SelectionMismatchError
	if errors.As(err, &mismatch) {
		body["missing_ids"] = mismatch.Missing
	}

	c.AbortWithStatusJSON(custom_error.HTTPStatus(err), body)
}
