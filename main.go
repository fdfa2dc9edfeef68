package main

import (
	"context"
	"database/sql"
	stdlog "log"
	"os"
	"time"

	"custodian/cmd"
	"custodian/internal/container"
	"custodian/internal/database"
	"custodian/internal/logger"
	"custodian/internal/middleware"
	"custodian/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	requestTimeout     = 30 * time.Second
	healthPingInterval = 30 * time.Second
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to the database successfully")

	middleware.SetVersion(appVersion())
	go watchDatabase(db, log)

	appContainer := container.NewAppContainer(db, log)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.TimeoutMiddleware(requestTimeout))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func appVersion() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}
	return "dev"
}

// watchDatabase keeps the /health payload honest: the status degrades while
// the database is unreachable and recovers on the next successful ping.
func watchDatabase(db *sql.DB, log *zap.Logger) {
	ticker := time.NewTicker(healthPingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := db.Ping(); err != nil {
			log.Warn("database ping failed", zap.Error(err))
			middleware.UpdateHealthStatus("degraded")
			continue
		}
		middleware.UpdateHealthStatus("ok")
	}
}
