// Package schedule serves published doctor consulting schedules.
package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

const (
	cacheName      = "schedule"
	departmentsKey = cacheName + ":departments"
)

type Service struct {
	repo    repository.ScheduleRepository
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(repo repository.ScheduleRepository, c *cache.Cache, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  log.With("schedule"),
	}
}

// List returns schedules sorted by date, department then doctor name.
func (s *Service) List(ctx context.Context, filter model.ScheduleFilter) ([]*model.DoctorSchedule, error) {
	key := listKey(filter)
	if v, ok := s.lookup(key); ok {
		return copySchedules(v.([]*model.DoctorSchedule)), nil
	}

	schedules, err := s.repo.ListSchedules(ctx, filter)
	if err != nil {
		s.logger.Error(err, "failed to list schedules", "department", filter.Department)
		return nil, apperrors.NewInternal(fmt.Errorf("failed to list schedules: %w", err))
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.DoctorName < b.DoctorName
	})

	s.store(key, schedules)
	return copySchedules(schedules), nil
}

// Departments lists the distinct departments that publish schedules.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	if v, ok := s.lookup(departmentsKey); ok {
		return append([]string{}, v.([]string)...), nil
	}

	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to list departments: %w", err))
	}
	sort.Strings(departments)

	s.store(departmentsKey, departments)
	return append([]string{}, departments...), nil
}

func listKey(filter model.ScheduleFilter) string {
	day := ""
	if !filter.Date.IsZero() {
		day = filter.Date.UTC().Format(model.DateLayout)
	}
	return fmt.Sprintf("%s:list:%s|%s", cacheName, filter.Department, day)
}

func (s *Service) lookup(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if s.metrics != nil {
		result := "miss"
		if ok {
			result = "hit"
		}
		s.metrics.CacheLookups.WithLabelValues(cacheName, result).Inc()
	}
	return v, ok
}

func (s *Service) store(key string, v interface{}) {
	if s.cache != nil {
		s.cache.SetDefault(key, v)
	}
}

func copySchedules(in []*model.DoctorSchedule) []*model.DoctorSchedule {
	out := make([]*model.DoctorSchedule, 0, len(in))
	for _, sch := range in {
		cp := *sch
		cp.Shifts = append([]model.Shift{}, sch.Shifts...)
		out = append(out, &cp)
	}
	return out
}
