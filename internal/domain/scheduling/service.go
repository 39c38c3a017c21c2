package scheduling

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// PatientInfo is the minimal patient payload a booking carries. The caller is
// identified by national code; an existing record with the same code is
// updated in place.
type PatientInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	NationalCode string `json:"national_code"`
	BirthDate    string `json:"birth_date"`
	PhoneNumber  string `json:"phone_number"`
	Gender       string `json:"gender"`
}

// PatientUpserter registers or refreshes a patient record and returns its id.
type PatientUpserter interface {
	UpsertPatient(ctx context.Context, info PatientInfo) (int64, error)
}

type Service struct {
	appointments AppointmentRepository
	patients     PatientUpserter
}

func NewService(appointments AppointmentRepository, patients PatientUpserter) *Service {
	return &Service{appointments: appointments, patients: patients}
}

// CheckAvailability reports whether the doctor's slot at date/timeSlot is
// free. Store errors report the slot as unavailable.
func (s *Service) CheckAvailability(ctx context.Context, doctorID int64, date, timeSlot string) (bool, error) {
	n, err := s.appointments.CountActiveAt(ctx, doctorID, date, CanonicalTime(timeSlot))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func validateSlot(date, timeSlot string) error {
	if !IsBookableSlot(timeSlot) {
		return fmt.Errorf("%w: reserved_time %q is not a bookable slot", ErrInvalid, timeSlot)
	}
	if date == "" {
		return fmt.Errorf("%w: reserved_date is required", ErrInvalid)
	}
	return nil
}

// Create books the slot for an already-registered patient. The slot is
// re-checked immediately before insert; a taken slot returns ErrSlotTaken.
// Status and tracking code are assigned here regardless of the input.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	a.ReservedTime = CanonicalTime(a.ReservedTime)
	if err := validateSlot(a.ReservedDate, a.ReservedTime); err != nil {
		return err
	}
	n, err := s.appointments.CountActiveAt(ctx, a.DoctorID, a.ReservedDate, a.ReservedTime)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotTaken
	}
	a.TrackingCode = newTrackingCode()
	a.Status = StatusPending
	return s.appointments.Create(ctx, a)
}

// BookVisit registers (or refreshes) the patient and books the appointment in
// one call. The slot fields are validated before the patient is touched, so a
// bad slot performs no writes at all. The returned appointment carries the
// stored id and tracking code.
func (s *Service) BookVisit(ctx context.Context, info PatientInfo, doctorID int64, date, timeSlot string) (*Appointment, error) {
	timeSlot = CanonicalTime(timeSlot)
	if err := validateSlot(date, timeSlot); err != nil {
		return nil, err
	}
	patientID, err := s.patients.UpsertPatient(ctx, info)
	if err != nil {
		return nil, err
	}
	a := &Appointment{
		PatientID:    patientID,
		DoctorID:     doctorID,
		ReservedDate: date,
		ReservedTime: timeSlot,
	}
	if err := s.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateStatus moves the appointment to one of the known states.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !ValidStatuses[status] {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) GetByTrackingCode(ctx context.Context, code string) (*Appointment, error) {
	return s.appointments.GetByTrackingCode(ctx, code)
}

func (s *Service) ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*Appointment, error) {
	return s.appointments.ListByDoctorAndDate(ctx, doctorID, date)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

// AvailableSlots returns the grid slots still free for the doctor on date.
func (s *Service) AvailableSlots(ctx context.Context, doctorID int64, date string) ([]string, error) {
	booked, err := s.appointments.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, a := range booked {
		if a.Active() {
			taken[CanonicalTime(a.ReservedTime)] = true
		}
	}
	var free []string
	for _, slot := range TimeSlots() {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

func newTrackingCode() string {
	return fmt.Sprintf("TRK-%d", 100000+rand.IntN(900000))
}
