package records

import (
	"context"
	"fmt"
)

// AppointmentCompleter marks a booked appointment as seen. Wired to the
// scheduling service at startup.
type AppointmentCompleter interface {
	CompleteAppointment(ctx context.Context, appointmentID int64) error
}

// TxRunner runs fn atomically. When nil the steps run without a shared
// transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	records      RecordRepository
	appointments AppointmentCompleter
	inTx         TxRunner
}

func NewService(records RecordRepository, appointments AppointmentCompleter, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{records: records, appointments: appointments, inTx: inTx}
}

func (s *Service) validate(r *MedicalRecord) error {
	if r.PatientID <= 0 {
		return fmt.Errorf("patient_id is required")
	}
	if r.DoctorID <= 0 {
		return fmt.Errorf("doctor_id is required")
	}
	if r.VisitDate == "" {
		return fmt.Errorf("visit_date is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, r *MedicalRecord) error {
	if err := s.validate(r); err != nil {
		return err
	}
	return s.records.Create(ctx, r)
}

// CompleteVisit files the visit record and moves the appointment to its
// completed state in one transaction.
func (s *Service) CompleteVisit(ctx context.Context, r *MedicalRecord, appointmentID int64) error {
	if err := s.validate(r); err != nil {
		return err
	}
	if appointmentID <= 0 {
		return fmt.Errorf("appointment_id is required")
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.records.Create(ctx, r); err != nil {
			return err
		}
		return s.appointments.CompleteAppointment(ctx, appointmentID)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*RecordView, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*RecordView, error) {
	return s.records.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*RecordView, int, error) {
	return s.records.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*RecordView, int, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.records.Delete(ctx, id)
}
