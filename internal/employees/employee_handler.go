package employees

import (
	"net/http"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/models"

	"github.com/gin-gonic/gin"
)

// EmployeeLifecycle is the slice of the lifecycle engine the directory
// handler drives: resignation and the delete cascade.
type EmployeeLifecycle interface {
	ResignEmployee(empCode string) error
	FinalizeEmployeeDeletions() (int64, error)
	ForceDeleteEmployee(empCode string) error
}

type EmployeeHandler struct {
	Repository *EmployeeRepository
	Service    *EmployeeService
	Lifecycle  EmployeeLifecycle
}

func NewHandler(repository *EmployeeRepository, service *EmployeeService, lifecycle EmployeeLifecycle) *EmployeeHandler {
	return &EmployeeHandler{
		Repository: repository,
		Service:    service,
		Lifecycle:  lifecycle,
	}
}

func (h *EmployeeHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/employees", h.CreateEmployee)
	router.GET("/employees", h.GetEmployeeList)
	router.GET("/employees/active", h.GetActiveEmployees)
	router.GET("/employees/work-statuses", h.GetWorkStatuses)
	router.GET("/employees/:emp_code", h.GetEmployee)
	router.PATCH("/employees/:emp_code", h.UpdateEmployee)
	router.PUT("/employees/:emp_code/resign", h.ResignEmployee)
	router.POST("/employees/finalize-deletions", h.FinalizeDeletions)
	router.DELETE("/employees/:emp_code", h.ForceDeleteEmployee)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	employee, err := h.Service.Register(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.Repository.GetByCode(c.Param("emp_code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) GetEmployeeList(c *gin.Context) {
	if statusWork := c.Query("status_work"); statusWork != "" {
		employees, err := h.Repository.GetEmployeesByWorkStatus(statusWork)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employees)
		return
	}

	employees, err := h.Repository.GetEmployeeList()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetActiveEmployees(c *gin.Context) {
	employees, err := h.Repository.GetActiveEmployees()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetWorkStatuses(c *gin.Context) {
	statuses, err := h.Repository.GetDistinctWorkStatuses()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statuses)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	employee, err := h.Service.Update(c.Param("emp_code"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) ResignEmployee(c *gin.Context) {
	empCode := c.Param("emp_code")

	if err := h.Lifecycle.ResignEmployee(empCode); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee resigned", "emp_code": empCode})
}

func (h *EmployeeHandler) FinalizeDeletions(c *gin.Context) {
	promoted, err := h.Lifecycle.FinalizeEmployeeDeletions()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deletions finalized", "count": promoted})
}

func (h *EmployeeHandler) ForceDeleteEmployee(c *gin.Context) {
	empCode := c.Param("emp_code")

	if err := h.Lifecycle.ForceDeleteEmployee(empCode); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee permanently removed", "emp_code": empCode})
}

func (h *EmployeeHandler) respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": custom_error.PublicMessage(err)})
}
