package model

import "time"

// DateLayout is the wire and form layout of date-only fields.
const DateLayout = "2006-01-02"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type OrderPriority string

const (
	PriorityRoutine OrderPriority = "routine"
	PriorityUrgent  OrderPriority = "urgent"
	PriorityStat    OrderPriority = "stat"
)

// PatientInfo is the identity block of the registration form.
type PatientInfo struct {
	FullName   string `json:"fullName"`
	DOB        string `json:"dob"`
	Gender     Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	NationalID string `json:"nationalId,omitempty"`
	Phone      string `json:"phone"`
	Insurance  string `json:"insurance,omitempty"`
	Address    string `json:"address,omitempty"`
}

type AppointmentRequest struct {
	Department    string `json:"department"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime" validate:"hhmm"`
	Symptoms      string `json:"symptoms,omitempty"`
}

// OrderRequest is an ancillary-service order attached to the visit.
type OrderRequest struct {
	ID       string        `json:"id" validate:"required"`
	Name     string        `json:"name" validate:"required"`
	Category string        `json:"category"`
	Priority OrderPriority `json:"priority" validate:"required,oneof=routine urgent stat"`
	Note     string        `json:"note,omitempty"`
}

// RegistrationInput is the raw form data as entered at the desk.
type RegistrationInput struct {
	Patient     PatientInfo        `json:"patient"`
	Appointment AppointmentRequest `json:"appointment"`
	Orders      []OrderRequest     `json:"orders" validate:"dive"`
}

type PatientPayload struct {
	FullName   string    `json:"fullName"`
	DOB        time.Time `json:"dob"`
	Gender     Gender    `json:"gender,omitempty"`
	NationalID string    `json:"nationalId,omitempty"`
	Phone      string    `json:"phone"`
	Insurance  string    `json:"insurance,omitempty"`
	Address    string    `json:"address,omitempty"`
}

type AppointmentPayload struct {
	Department    string    `json:"department"`
	PreferredDate time.Time `json:"preferredDate"`
	PreferredTime string    `json:"preferredTime"`
	Symptoms      string    `json:"symptoms,omitempty"`
}

// RegistrationPayload is the validated record handed to the gateway.
// Time fields marshal as RFC 3339 timestamps.
type RegistrationPayload struct {
	Patient     PatientPayload     `json:"patient"`
	Appointment AppointmentPayload `json:"appointment"`
	Orders      []OrderRequest     `json:"orders"`
	SubmittedAt time.Time          `json:"submittedAt"`
}

type RegistrationResult struct {
	RegistrationID string `json:"registrationId"`
}

// RegistrationState is what the desk UI polls to render progress.
type RegistrationState struct {
	Submitting         bool   `json:"submitting"`
	Error              string `json:"error,omitempty"`
	LastRegistrationID string `json:"lastRegistrationId,omitempty"`
}
