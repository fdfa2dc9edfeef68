package container

import (
	"database/sql"

	activityLogRepo "custodian/internal/activitylog"
	"custodian/internal/assets"
	"custodian/internal/catalog"
	"custodian/internal/custody"
	"custodian/internal/employees"
	"custodian/internal/lifecycle"
	"custodian/internal/repository"
	"custodian/pkg/activitylog"
	"custodian/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository      *repository.Repository
	ActivityLog     *activitylog.ActivityLog
	LoginHandler    *security.LoginHandler
	AssetHandler    *assets.AssetHandler
	CustodyHandler  *custody.CustodyHandler
	EmployeeHandler *employees.EmployeeHandler
	CatalogHandler  *catalog.CatalogHandler
	EngineHandler   *lifecycle.Handler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	activityLog := activitylog.NewActivityLog(activityLogRepo.NewRepository(repo), log)

	assetRepo := assets.NewRepository(repo)
	repairRepo := assets.NewRepairRepository(repo)
	ledgerRepo := custody.NewRepository(repo)
	employeeRepo := employees.NewRepository(repo)
	catalogRepo := catalog.NewRepository(repo)

	engine := lifecycle.NewEngine(repo, assetRepo, ledgerRepo, employeeRepo, catalogRepo, log)

	employeeService := employees.NewService(employeeRepo)

	return &Container{
		Repository:      repo,
		ActivityLog:     activityLog,
		LoginHandler:    security.NewLoginHandler(employeeRepo, log),
		AssetHandler:    assets.NewHandler(assetRepo, repairRepo, activityLog),
		CustodyHandler:  custody.NewHandler(ledgerRepo),
		EmployeeHandler: employees.NewHandler(employeeRepo, employeeService, engine),
		CatalogHandler:  catalog.NewHandler(catalogRepo),
		EngineHandler:   lifecycle.NewHandler(engine, assetRepo, activityLog),
	}
}
