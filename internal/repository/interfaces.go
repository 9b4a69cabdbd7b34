package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

// ErrNotFound is returned by Get methods when no row matches.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// CatalogRepository reads the ancillary-service catalog
	CatalogRepository interface {
		// ListServices returns services in a category, or all when category is empty.
		ListServices(ctx context.Context, category string) ([]*model.AncillaryService, error)
		GetService(ctx context.Context, id string) (*model.AncillaryService, error)
	}

	// ScheduleRepository reads published doctor schedules
	ScheduleRepository interface {
		ListSchedules(ctx context.Context, filter model.ScheduleFilter) ([]*model.DoctorSchedule, error)
		ListDepartments(ctx context.Context) ([]string, error)
	}

	// Pinger is implemented by stores that can report readiness.
	Pinger interface {
		PingContext(ctx context.Context) error
	}
)
