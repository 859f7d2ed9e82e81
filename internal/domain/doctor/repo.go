package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("doctor not found")
	ErrDuplicate = errors.New("username, email or license number already registered")

	// ErrInvalidInput marks client-correctable validation failures; handlers
	// map it to 400 while anything unrecognized becomes a generic 500.
	ErrInvalidInput = errors.New("invalid input")
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUsername(ctx context.Context, username string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}
