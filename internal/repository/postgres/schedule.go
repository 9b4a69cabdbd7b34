package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// scheduleRow is one schedule joined with at most one of its shifts.
type scheduleRow struct {
	ScheduleID string         `db:"schedule_id"`
	DoctorID   string         `db:"doctor_id"`
	DoctorName string         `db:"doctor_name"`
	Specialty  string         `db:"specialty"`
	Department string         `db:"department"`
	Date       time.Time      `db:"schedule_date"`
	Start      sql.NullString `db:"start_time"`
	End        sql.NullString `db:"end_time"`
	Room       sql.NullString `db:"room"`
	Capacity   sql.NullInt64  `db:"capacity"`
	Booked     sql.NullInt64  `db:"booked"`
}

func (r *scheduleRepository) ListSchedules(ctx context.Context, filter model.ScheduleFilter) ([]*model.DoctorSchedule, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("s.department = $%d", len(args)))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date.Format(model.DateLayout))
		conditions = append(conditions, fmt.Sprintf("s.schedule_date = $%d", len(args)))
	}

	query := `
		SELECT s.id AS schedule_id, s.doctor_id, s.doctor_name, s.specialty, s.department, s.schedule_date,
			sh.start_time, sh.end_time, sh.room, sh.capacity, sh.booked
		FROM doctor_schedules s
		LEFT JOIN schedule_shifts sh ON sh.schedule_id = s.id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY s.schedule_date, s.department, s.doctor_name, sh.start_time"

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	schedules := make([]*model.DoctorSchedule, 0)
	byID := make(map[string]*model.DoctorSchedule)
	for _, row := range rows {
		schedule, ok := byID[row.ScheduleID]
		if !ok {
			schedule = &model.DoctorSchedule{
				DoctorID:   row.DoctorID,
				DoctorName: row.DoctorName,
				Specialty:  row.Specialty,
				Department: row.Department,
				Date:       row.Date.UTC(),
				Shifts:     []model.Shift{},
			}
			byID[row.ScheduleID] = schedule
			schedules = append(schedules, schedule)
		}
		if !row.Start.Valid {
			continue
		}
		schedule.Shifts = append(schedule.Shifts, model.Shift{
			Start:    row.Start.String,
			End:      row.End.String,
			Room:     row.Room.String,
			Capacity: int(row.Capacity.Int64),
			Booked:   int(row.Booked.Int64),
		})
	}
	return schedules, nil
}

func (r *scheduleRepository) ListDepartments(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT department FROM doctor_schedules ORDER BY department`

	var departments []string
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
