package model

import "time"

// Shift is a consulting block of a doctor on a given day.
type Shift struct {
	Start    string `json:"start" db:"start_time"`
	End      string `json:"end" db:"end_time"`
	Room     string `json:"room" db:"room"`
	Capacity int    `json:"capacity" db:"capacity"`
	Booked   int    `json:"booked" db:"booked"`
}

// Available returns the number of free slots left in the shift.
func (s Shift) Available() int {
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}

type DoctorSchedule struct {
	DoctorID   string    `json:"doctorId" db:"doctor_id"`
	DoctorName string    `json:"doctorName" db:"doctor_name"`
	Specialty  string    `json:"specialty" db:"specialty"`
	Department string    `json:"department" db:"department"`
	Date       time.Time `json:"date" db:"schedule_date"`
	Shifts     []Shift   `json:"shifts"`
}

type ScheduleFilter struct {
	Department string
	// Date is compared by calendar day; zero means any day.
	Date time.Time
}
