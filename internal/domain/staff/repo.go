package staff

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested personnel record does not exist.
	ErrNotFound = errors.New("personnel not found")

	// ErrBadCredentials indicates the login failed. The same error covers an
	// unknown user, a wrong password and a wrong role so callers cannot
	// tell which part was wrong.
	ErrBadCredentials = errors.New("bad credentials")
)

type PersonnelRepository interface {
	Create(ctx context.Context, p *Personnel) error
	GetByNationalCode(ctx context.Context, nationalCode string) (*Personnel, error)
	Update(ctx context.Context, p *Personnel) error
	UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error
	Delete(ctx context.Context, nationalCode string) error
	List(ctx context.Context, limit, offset int) ([]*Personnel, int, error)
}

// DoctorAccount is the slice of a doctor record needed for login.
type DoctorAccount struct {
	NationalCode string
	FirstName    string
	LastName     string
	PasswordHash string
}

// DoctorDirectory looks up doctor accounts for authentication. It is
// implemented by an adapter over the identity service so this package does
// not depend on the doctor registry directly.
type DoctorDirectory interface {
	GetByNationalCode(ctx context.Context, nationalCode string) (*DoctorAccount, error)
	UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error
}
