package contact

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Submit(ctx context.Context, c *Contact) error {
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(c.Email) {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	if c.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Contact, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Resolve(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkResolved(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
