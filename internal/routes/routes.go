package routes

import (
	"custodian/internal/container"
	"custodian/internal/middleware"
	"custodian/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	router.POST("/auth", c.LoginHandler.Login)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	c.AssetHandler.RegisterRoutes(protected)
	c.CustodyHandler.RegisterRoutes(protected)
	c.CatalogHandler.RegisterRoutes(protected)
	c.EngineHandler.RegisterRoutes(protected)

	admin := router.Group("")
	admin.Use(security.JWTMiddleware(), security.Authorize("admin"))
	c.EmployeeHandler.RegisterRoutes(admin)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckHandler())
}
