package scheduling

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// ErrSlotTaken indicates the doctor already has an active appointment at the
// requested date and time.
var ErrSlotTaken = errors.New("slot already taken")

// ErrInvalid marks a booking request rejected before any store access.
var ErrInvalid = errors.New("invalid booking request")

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	// GetByTrackingCode returns the newest appointment carrying the code.
	GetByTrackingCode(ctx context.Context, code string) (*Appointment, error)
	// CountActiveAt counts non-canceled appointments occupying the slot.
	CountActiveAt(ctx context.Context, doctorID int64, date, timeSlot string) (int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Appointment, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}
