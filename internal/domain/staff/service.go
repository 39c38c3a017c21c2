package staff

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/matabyar/clinic/internal/platform/auth"
	"github.com/matabyar/clinic/internal/validate"
)

type Service struct {
	personnel PersonnelRepository
	doctors   DoctorDirectory
	issuer    *auth.TokenIssuer
}

func NewService(personnel PersonnelRepository, doctors DoctorDirectory, issuer *auth.TokenIssuer) *Service {
	return &Service{personnel: personnel, doctors: doctors, issuer: issuer}
}

// Authenticate checks the given credentials against the personnel table
// first and the doctor registry second. The selected role must match the
// stored one; doctors always carry the doctor role. All login failures
// surface as ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, nationalCode, role, password string) (*Session, error) {
	if !auth.ValidRoles[role] {
		return nil, ErrBadCredentials
	}

	p, err := s.personnel.GetByNationalCode(ctx, nationalCode)
	switch {
	case err == nil:
		if p.Role != role {
			return nil, ErrBadCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
			return nil, ErrBadCredentials
		}
		return s.newSession(p.NationalCode, p.FirstName+" "+p.LastName, p.Role)
	case errors.Is(err, ErrNotFound):
		// fall through to the doctor registry
	default:
		return nil, err
	}

	d, err := s.doctors.GetByNationalCode(ctx, nationalCode)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if role != auth.RoleDoctor {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return s.newSession(d.NationalCode, d.FirstName+" "+d.LastName, auth.RoleDoctor)
}

func (s *Service) newSession(nationalCode, fullName, role string) (*Session, error) {
	token, err := s.issuer.Issue(nationalCode, fullName, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		Token:        token,
		NationalCode: nationalCode,
		FullName:     fullName,
		Role:         role,
	}, nil
}

// UpdateCredentials changes the national code and password of the staff
// member identified by currentNationalCode, whether they are personnel or
// a doctor.
func (s *Service) UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, newPassword string) error {
	if !validate.NationalCode(newNationalCode) {
		return fmt.Errorf("invalid national code: %s", newNationalCode)
	}
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.personnel.UpdateCredentials(ctx, currentNationalCode, newNationalCode, string(hash))
	if errors.Is(err, ErrNotFound) {
		return s.doctors.UpdateCredentials(ctx, currentNationalCode, newNationalCode, string(hash))
	}
	return err
}

// -- Personnel management --

var personnelRoles = map[string]bool{
	auth.RoleAdmin:     true,
	auth.RoleSecretary: true,
	auth.RoleNurse:     true,
}

func (s *Service) CreatePersonnel(ctx context.Context, p *Personnel, password string) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !validate.NationalCode(p.NationalCode) {
		return fmt.Errorf("invalid national code: %s", p.NationalCode)
	}
	if !personnelRoles[p.Role] {
		return fmt.Errorf("invalid personnel role: %s", p.Role)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = string(hash)
	return s.personnel.Create(ctx, p)
}

func (s *Service) GetPersonnel(ctx context.Context, nationalCode string) (*Personnel, error) {
	return s.personnel.GetByNationalCode(ctx, nationalCode)
}

func (s *Service) UpdatePersonnel(ctx context.Context, p *Personnel) error {
	if p.Role != "" && !personnelRoles[p.Role] {
		return fmt.Errorf("invalid personnel role: %s", p.Role)
	}
	return s.personnel.Update(ctx, p)
}

func (s *Service) DeletePersonnel(ctx context.Context, nationalCode string) error {
	return s.personnel.Delete(ctx, nationalCode)
}

func (s *Service) ListPersonnel(ctx context.Context, limit, offset int) ([]*Personnel, int, error) {
	return s.personnel.List(ctx, limit, offset)
}
