package catalog

import (
	"fmt"

	"custodian/internal/repository"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Repository resolves named asset statuses to their persisted catalog ids.
// The catalog is seeded once by migration; a missing name is a configuration
// fault, not user input.
type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

// Resolve returns the catalog id of a named asset status inside an open
// transaction.
func (r *Repository) Resolve(tx *goqu.TxDatabase, status metadata.AssetStatus) (int, error) {
	var statusID int
	found, err := tx.Select("status_id").
		From("asset_statuses").
		Where(goqu.Ex{"status_name": status.String()}).
		Executor().
		ScanVal(&statusID)

	if err != nil {
		return 0, fmt.Errorf("failed to resolve asset status %q: %w", status, err)
	}
	if !found {
		return 0, custom_error.NewNotFound("asset status %q is missing from the status catalog", status)
	}

	return statusID, nil
}

func (r *Repository) ListStatuses() ([]models.CatalogStatus, error) {
	var statuses []models.CatalogStatus
	query := r.repository.GoquDBWrapper.
		Select("status_id", "status_name").
		From("asset_statuses").
		Order(goqu.I("status_id").Asc())

	if err := query.Executor().ScanStructs(&statuses); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return statuses, nil
}
