package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("contact message not found")

	// ErrInvalidInput marks client-correctable validation failures; handlers
	// map it to 400 while anything unrecognized becomes a generic 500.
	ErrInvalidInput = errors.New("invalid input")
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	List(ctx context.Context, limit, offset int) ([]*Contact, int, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
