package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

const serviceColumns = `id, code, name, category, price, turnaround_hours, COALESCE(description, '') AS description`

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListServices(ctx context.Context, category string) ([]*model.AncillaryService, error) {
	query := `SELECT ` + serviceColumns + `
		FROM ancillary_services
		WHERE ($1 = '' OR category = $1)
		ORDER BY category, name`

	var services []*model.AncillaryService
	if err := r.db.SelectContext(ctx, &services, query, category); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) GetService(ctx context.Context, id string) (*model.AncillaryService, error) {
	query := `SELECT ` + serviceColumns + ` FROM ancillary_services WHERE id = $1`

	var service model.AncillaryService
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}
