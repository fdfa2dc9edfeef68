package security

import (
	"errors"
	"net/http"

	custom_error "custodian/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginHandler struct {
	store CredentialStore
	log   *zap.Logger
}

func NewLoginHandler(store CredentialStore, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		store: store,
		log:   log,
	}
}

func (h *LoginHandler) Login(c *gin.Context) {
	var req struct {
		EmpCode  string `json:"emp_code" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	employee, err := AuthenticateUser(h.store, req.EmpCode, req.Password)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid employee code or password"})
			return
		}
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := GenerateJWT(employee.ID, employee.EmpCode, employee.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"emp_code":  employee.EmpCode,
			"full_name": employee.FullName,
			"role":      employee.Role,
		},
	})
}
