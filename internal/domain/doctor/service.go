package doctor

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

func (s *Service) Profile(ctx context.Context, username string) (*Doctor, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateInput carries the profile fields a doctor may change. Username,
// password and license number are fixed after registration.
type UpdateInput struct {
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Specialization *string `json:"specialization"`
	Phone          *string `json:"phone"`
	Location       *string `json:"location"`
}

func (s *Service) UpdateProfile(ctx context.Context, username string, in UpdateInput) (*Doctor, error) {
	d, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		if !emailPattern.MatchString(in.Email) {
			return nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
		}
		d.Email = in.Email
	}
	if in.FirstName != "" {
		d.FirstName = in.FirstName
	}
	if in.LastName != "" {
		d.LastName = in.LastName
	}
	if in.Specialization != nil {
		d.Specialization = in.Specialization
	}
	if in.Phone != nil {
		d.Phone = in.Phone
	}
	if in.Location != nil {
		d.Location = in.Location
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Deactivate soft-deletes the caller's own account. The row survives so
// existing medical records keep a valid author reference; the doctor simply
// disappears from listings and can no longer log in.
func (s *Service) Deactivate(ctx context.Context, username string) error {
	d, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, d.ID)
}
