package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Repository *Repository
}

func NewHandler(repository *Repository) *CatalogHandler {
	return &CatalogHandler{
		Repository: repository,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/catalog/statuses", h.GetStatuses)
	router.GET("/catalog/departments", h.GetDepartments)
	router.GET("/catalog/business-units", h.GetBusinessUnits)
	router.GET("/catalog/business-units/:id/departments", h.GetDepartmentsByBusinessUnit)
	router.GET("/catalog/vendors", h.GetVendors)
	router.GET("/catalog/categories", h.GetCategories)
	router.GET("/catalog/software", h.GetSoftwareUsed)
}

func (h *CatalogHandler) GetStatuses(c *gin.Context) {
	statuses, err := h.Repository.ListStatuses()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get statuses"})
		return
	}

	c.JSON(http.StatusOK, statuses)
}

func (h *CatalogHandler) GetDepartments(c *gin.Context) {
	departments, err := h.Repository.ListDepartments()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get departments"})
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *CatalogHandler) GetDepartmentsByBusinessUnit(c *gin.Context) {
	businessUnitID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid business unit id"})
		return
	}

	departments, err := h.Repository.ListDepartmentsByBusinessUnit(businessUnitID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get departments"})
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *CatalogHandler) GetBusinessUnits(c *gin.Context) {
	units, err := h.Repository.ListBusinessUnits()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get business units"})
		return
	}

	c.JSON(http.StatusOK, units)
}

func (h *CatalogHandler) GetVendors(c *gin.Context) {
	vendors, err := h.Repository.ListVendors()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get vendors"})
		return
	}

	c.JSON(http.StatusOK, vendors)
}

func (h *CatalogHandler) GetSoftwareUsed(c *gin.Context) {
	software, err := h.Repository.ListSoftwareUsed()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get software list"})
		return
	}

	c.JSON(http.StatusOK, software)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.Repository.ListCategories()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
