package custody

import (
	"net/http"
	"strconv"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/models"

	"github.com/gin-gonic/gin"
)

type CustodyHandler struct {
	Repository *LedgerRepository
}

func NewHandler(repository *LedgerRepository) *CustodyHandler {
	return &CustodyHandler{
		Repository: repository,
	}
}

func (h *CustodyHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/custody/history", h.GetHistory)
	router.GET("/custody/history/:id", h.GetHistoryDetail)
	router.GET("/custody/assets/:asset_id/history", h.GetAssetHistory)
	router.GET("/custody/assets/:asset_id/floors", h.GetRegisteredFloors)
	router.GET("/custody/worklists/account-provisioning", h.GetAccountProvisioningList)
	router.GET("/custody/worklists/logon-setup", h.GetLogonSetupList)
	router.GET("/custody/worklists/account-removal", h.GetAccountRemovalList)
	router.GET("/custody/returned", h.GetReturnedAssets)
	router.GET("/custody/employees/:emp_code/assets", h.GetEmployeeAssets)
}

func (h *CustodyHandler) GetHistory(c *gin.Context) {
	details, err := h.Repository.GetHistory(c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CustodyHandler) GetHistoryDetail(c *gin.Context) {
	historyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid history id"})
		return
	}

	detail, err := h.Repository.GetHistoryDetail(historyID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *CustodyHandler) GetAssetHistory(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("asset_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	details, err := h.Repository.GetAssetHistory(assetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CustodyHandler) GetRegisteredFloors(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("asset_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	floors, err := h.Repository.GetRegisteredFloors(assetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset_id": assetID, "floors": floors})
}

func (h *CustodyHandler) GetAccountProvisioningList(c *gin.Context) {
	h.worklist(c, h.Repository.GetAccountProvisioningList)
}

func (h *CustodyHandler) GetLogonSetupList(c *gin.Context) {
	h.worklist(c, h.Repository.GetLogonSetupList)
}

func (h *CustodyHandler) GetAccountRemovalList(c *gin.Context) {
	h.worklist(c, h.Repository.GetAccountRemovalList)
}

func (h *CustodyHandler) GetReturnedAssets(c *gin.Context) {
	h.worklist(c, h.Repository.GetReturnedAssets)
}

func (h *CustodyHandler) GetEmployeeAssets(c *gin.Context) {
	details, err := h.Repository.GetEmployeeAssets(c.Param("emp_code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CustodyHandler) worklist(c *gin.Context, query func() ([]models.CustodyDetail, error)) {
	details, err := query()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CustodyHandler) respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": custom_error.PublicMessage(err)})
}
