package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("patient not found")
	ErrDuplicate = errors.New("username, email or national ID already registered")

	// ErrInvalidInput marks client-correctable validation failures; handlers
	// map it to 400 while anything unrecognized becomes a generic 500.
	ErrInvalidInput = errors.New("invalid input")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUsername(ctx context.Context, username string) (*Patient, error)
	GetByUID(ctx context.Context, uid string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
