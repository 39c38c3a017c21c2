package records

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested medical record does not exist.
var ErrNotFound = errors.New("medical record not found")

type RecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id int64) (*RecordView, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*RecordView, error)
	ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*RecordView, int, error)
	List(ctx context.Context, limit, offset int) ([]*RecordView, int, error)
	Delete(ctx context.Context, id int64) error
}
