package identity

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/matabyar/clinic/internal/validate"
)

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors}
}

// -- Patient --

var validGenders = map[string]bool{
	GenderMale:   true,
	GenderFemale: true,
}

func validatePatient(p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalid)
	}
	if p.LastName == "" {
		return fmt.Errorf("%w: last_name is required", ErrInvalid)
	}
	if !validate.NationalCode(p.NationalCode) {
		return fmt.Errorf("%w: invalid national code %s", ErrInvalid, p.NationalCode)
	}
	if !validate.MobileNumber(p.PhoneNumber) {
		return fmt.Errorf("%w: invalid phone number %s", ErrInvalid, p.PhoneNumber)
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("%w: invalid gender %s", ErrInvalid, p.Gender)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

// UpsertPatientByNationalCode inserts or overwrites the patient keyed by
// national code. Invalid input never reaches the store.
func (s *Service) UpsertPatientByNationalCode(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.UpsertByNationalCode(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByNationalCode(ctx context.Context, nationalCode string) (*Patient, error) {
	return s.patients.GetByNationalCode(ctx, nationalCode)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor, password string) error {
	if d.FirstName == "" || d.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !validate.NationalCode(d.NationalCode) {
		return fmt.Errorf("invalid national code: %s", d.NationalCode)
	}
	if d.MedicalSystemNumber == "" {
		return fmt.Errorf("medical_system_number is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	d.PasswordHash = string(hash)
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) GetDoctorByNationalCode(ctx context.Context, nationalCode string) (*Doctor, error) {
	return s.doctors.GetByNationalCode(ctx, nationalCode)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.MedicalSystemNumber == "" {
		return fmt.Errorf("medical_system_number is required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// DoctorWorksOn reports whether the doctor accepts visits on the given
// Persian weekday name.
func (s *Service) DoctorWorksOn(ctx context.Context, doctorID int64, weekday string) (bool, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return false, err
	}
	return d.WorksOn(weekday), nil
}
