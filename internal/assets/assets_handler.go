package assets

import (
	"net/http"
	"strconv"

	"custodian/pkg/activitylog"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"
	"custodian/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	Repository  *AssetsRepository
	Repairs     *RepairRepository
	ActivityLog *activitylog.ActivityLog
}

func NewHandler(repository *AssetsRepository, repairs *RepairRepository, activityLog *activitylog.ActivityLog) *AssetHandler {
	return &AssetHandler{
		Repository:  repository,
		Repairs:     repairs,
		ActivityLog: activityLog,
	}
}

func (h *AssetHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/assets", h.GetAssetList)
	router.GET("/assets/search", h.SearchAssets)
	router.GET("/assets/counts", h.GetAssetCounts)
	router.GET("/assets/available", h.GetAvailableAssets)
	router.GET("/assets/pending-deletion", h.GetPendingDeletionAssets)
	router.GET("/assets/allocated-deletion", h.GetAllocatedForDeletionAssets)
	router.GET("/assets/reassignable/:employee_id", h.GetReassignableAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.GET("/assets/code/:asset_code", h.GetAssetByCode)
	router.PATCH("/assets/code/:asset_code", h.UpdateAsset)
	router.DELETE("/assets/:id", h.RemoveAsset)

	router.GET("/assets/:id/activity", h.GetAssetActivity)

	router.POST("/repairs", h.CreateRepair)
	router.GET("/repairs", h.GetRepairList)
	router.GET("/assets/:id/repairs", h.GetRepairsForAsset)
	router.PUT("/repairs/:id", h.UpdateRepair)
	router.DELETE("/repairs/:id", h.DeleteRepair)
}

func (h *AssetHandler) GetAssetList(c *gin.Context) {
	assets, err := h.Repository.GetAssetList()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	asset, err := h.Repository.GetAsset(assetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) GetAssetByCode(c *gin.Context) {
	assetCode := c.Param("asset_code")

	asset, err := h.Repository.GetAssetByCode(assetCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) SearchAssets(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing search term"})
		return
	}

	summaries, err := h.Repository.SearchAssets(term)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to search assets"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *AssetHandler) GetAssetCounts(c *gin.Context) {
	counts, err := h.Repository.GetAssetCounts()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to count assets"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *AssetHandler) GetAvailableAssets(c *gin.Context) {
	h.listByStatus(c, metadata.AssetNew)
}

func (h *AssetHandler) GetPendingDeletionAssets(c *gin.Context) {
	h.listByStatus(c, metadata.AssetPendingDeletion)
}

func (h *AssetHandler) GetAllocatedForDeletionAssets(c *gin.Context) {
	h.listByStatus(c, metadata.AssetAllocatedForDeletion)
}

func (h *AssetHandler) listByStatus(c *gin.Context, status metadata.AssetStatus) {
	assets, err := h.Repository.GetAssetsByStatus(status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetReassignableAssets(c *gin.Context) {
	employeeID, err := strconv.Atoi(c.Param("employee_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid employee id"})
		return
	}

	assets, err := h.Repository.GetReassignableAssets(employeeID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	assetCode := c.Param("asset_code")

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	record := goqu.Record{}
	for key, value := range fields {
		record[key] = value
	}

	asset, err := h.Repository.UpdateAssetFields(assetCode, record)
	if err != nil {
		h.respondError(c, err)
		return
	}

	go h.ActivityLog.Log("update", security.ActorID(c), fields, asset)

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	asset, err := h.Repository.GetAsset(assetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Repository.RemoveAsset(assetID); err != nil {
		h.respondError(c, err)
		return
	}

	go h.ActivityLog.Log("delete", security.ActorID(c), map[string]interface{}{
		"asset_code": asset.Code,
		"msg":        "Administrative hard delete",
	}, asset)

	c.JSON(http.StatusOK, gin.H{"message": "Asset removed"})
}

func (h *AssetHandler) GetAssetActivity(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	entries, err := h.ActivityLog.ResourceLog(assetID, "asset")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get activity log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *AssetHandler) CreateRepair(c *gin.Context) {
	var req models.RepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	record, err := h.Repairs.CreateRepair(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *AssetHandler) GetRepairList(c *gin.Context) {
	records, err := h.Repairs.GetRepairList()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get repair records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *AssetHandler) GetRepairsForAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	records, err := h.Repairs.GetRepairsForAsset(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get repair records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *AssetHandler) UpdateRepair(c *gin.Context) {
	repairID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid repair id"})
		return
	}

	var req models.RepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	record, err := h.Repairs.UpdateRepair(repairID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *AssetHandler) DeleteRepair(c *gin.Context) {
	repairID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid repair id"})
		return
	}

	if err := h.Repairs.DeleteRepair(repairID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Repair record removed"})
}

func (h *AssetHandler) respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": custom_error.PublicMessage(err)})
}
