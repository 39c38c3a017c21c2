package pharmacy

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested medicine does not exist.
var ErrNotFound = errors.New("medicine not found")

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id int64) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
}
