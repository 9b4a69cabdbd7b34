package registration

import (
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/validator"
)

// Mapper checks a registration form and turns it into a gateway payload.
type Mapper struct {
	validate validator.Validator
	now      func() time.Time
}

func NewMapper(v validator.Validator) *Mapper {
	if v == nil {
		v = validator.New()
	}
	return &Mapper{validate: v, now: time.Now}
}

// Map fails on the first missing required field, in form order, before
// looking at formats. Nothing is partially returned.
func (m *Mapper) Map(in *model.RegistrationInput) (*model.RegistrationPayload, error) {
	if in == nil {
		in = &model.RegistrationInput{}
	}
	if err := checkRequired(in); err != nil {
		return nil, err
	}

	dob, err := time.ParseInLocation(model.DateLayout, in.Patient.DOB, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(apperrors.ErrInvalidDOB, err)
	}
	preferred, err := time.ParseInLocation(model.DateLayout, in.Appointment.PreferredDate, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(apperrors.ErrInvalidPreferredDate, err)
	}

	if err := m.validate.Validate(in); err != nil {
		return nil, formatError(err)
	}

	orders := make([]model.OrderRequest, len(in.Orders))
	copy(orders, in.Orders)

	return &model.RegistrationPayload{
		Patient: model.PatientPayload{
			FullName:   strings.TrimSpace(in.Patient.FullName),
			DOB:        dob,
			Gender:     in.Patient.Gender,
			NationalID: in.Patient.NationalID,
			Phone:      in.Patient.Phone,
			Insurance:  in.Patient.Insurance,
			Address:    in.Patient.Address,
		},
		Appointment: model.AppointmentPayload{
			Department:    in.Appointment.Department,
			PreferredDate: preferred,
			PreferredTime: in.Appointment.PreferredTime,
			Symptoms:      in.Appointment.Symptoms,
		},
		Orders:      orders,
		SubmittedAt: m.now(),
	}, nil
}

func checkRequired(in *model.RegistrationInput) error {
	switch {
	case strings.TrimSpace(in.Patient.FullName) == "":
		return apperrors.Validation(apperrors.ErrPatientNameRequired, nil)
	case in.Patient.DOB == "":
		return apperrors.Validation(apperrors.ErrPatientDOBRequired, nil)
	case in.Patient.Phone == "":
		return apperrors.Validation(apperrors.ErrPatientPhoneRequired, nil)
	case in.Appointment.Department == "":
		return apperrors.Validation(apperrors.ErrDepartmentRequired, nil)
	case in.Appointment.PreferredDate == "":
		return apperrors.Validation(apperrors.ErrPreferredDateRequired, nil)
	case in.Appointment.PreferredTime == "":
		return apperrors.Validation(apperrors.ErrPreferredTimeRequired, nil)
	case len(in.Orders) == 0:
		return apperrors.Validation(apperrors.ErrOrdersRequired, nil)
	}
	return nil
}

func formatError(err error) error {
	var fe *validator.FieldError
	if !errors.As(err, &fe) {
		return apperrors.Unknown(err)
	}
	switch {
	case strings.Contains(fe.Namespace, ".Orders["):
		return apperrors.Validation(apperrors.ErrInvalidOrder, err)
	case fe.Field == "Gender":
		return apperrors.Validation(apperrors.ErrInvalidGender, err)
	case fe.Field == "PreferredTime":
		return apperrors.Validation(apperrors.ErrInvalidPreferredTime, err)
	}
	return apperrors.NewBadRequest(fe.Error(), err)
}
