package identity

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested patient or doctor does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks input rejected by validation before any store access.
var ErrInvalid = errors.New("invalid input")

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByNationalCode(ctx context.Context, nationalCode string) (*Patient, error)
	// UpsertByNationalCode inserts the patient or, when the national code
	// already exists, overwrites the demographic fields of the existing row
	// while keeping its surrogate id.
	UpsertByNationalCode(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByNationalCode(ctx context.Context, nationalCode string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}
