package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type scheduleRepository struct {
	mu        sync.RWMutex
	schedules []*model.DoctorSchedule
}

func NewScheduleRepository(schedules []*model.DoctorSchedule) repository.ScheduleRepository {
	r := &scheduleRepository{schedules: make([]*model.DoctorSchedule, 0, len(schedules))}
	for _, s := range schedules {
		r.schedules = append(r.schedules, copySchedule(s))
	}
	sort.SliceStable(r.schedules, func(i, j int) bool {
		a, b := r.schedules[i], r.schedules[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.DoctorName < b.DoctorName
	})
	return r
}

func (r *scheduleRepository) ListSchedules(_ context.Context, filter model.ScheduleFilter) ([]*model.DoctorSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.DoctorSchedule, 0)
	for _, s := range r.schedules {
		if filter.Department != "" && s.Department != filter.Department {
			continue
		}
		if !filter.Date.IsZero() && !sameDay(s.Date, filter.Date) {
			continue
		}
		out = append(out, copySchedule(s))
	}
	return out, nil
}

func (r *scheduleRepository) ListDepartments(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range r.schedules {
		if _, ok := seen[s.Department]; ok {
			continue
		}
		seen[s.Department] = struct{}{}
		out = append(out, s.Department)
	}
	sort.Strings(out)
	return out, nil
}

func copySchedule(s *model.DoctorSchedule) *model.DoctorSchedule {
	cp := *s
	cp.Shifts = append([]model.Shift{}, s.Shifts...)
	return &cp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
