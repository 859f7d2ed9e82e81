package patient

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/medichron/api/internal/platform/phi"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo Repository
	phi  *phi.Service
}

func NewService(repo Repository, phiSvc *phi.Service) *Service {
	return &Service{repo: repo, phi: phiSvc}
}

// Profile returns the patient's own profile with the national ID masked down
// to its last four digits. A decrypt failure is surfaced to the caller; it
// means a key mismatch and must never degrade to silent garbage.
func (s *Service) Profile(ctx context.Context, username string) (*Patient, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.maskAadhaar(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a patient by id, national ID masked. Used for doctor-side reads.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.maskAadhaar(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateInput carries the profile fields a patient may change. Username,
// password, national ID and UID are fixed after registration.
type UpdateInput struct {
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Location    *string    `json:"location"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Phone       *string    `json:"phone"`
}

func (s *Service) UpdateProfile(ctx context.Context, username string, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		if !emailPattern.MatchString(in.Email) {
			return nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
		}
		p.Email = in.Email
	}
	if in.FirstName != "" {
		p.FirstName = in.FirstName
	}
	if in.LastName != "" {
		p.LastName = in.LastName
	}
	if in.Location != nil {
		p.Location = in.Location
	}
	if in.DateOfBirth != nil {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.Phone != nil {
		if len(digitsOf(*in.Phone)) < 10 {
			return nil, fmt.Errorf("%w: phone must contain at least 10 digits", ErrInvalidInput)
		}
		p.Phone = in.Phone
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.maskAadhaar(p); err != nil {
		return nil, err
	}
	return p, nil
}

// QRCodeResponse carries the patient's lookup UID and the QR image encoding
// it, as a PNG data URL ready for an <img> tag.
type QRCodeResponse struct {
	UID   string `json:"uid"`
	Image string `json:"image"`
}

func (s *Service) QRCode(ctx context.Context, username string) (*QRCodeResponse, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(p.UID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return &QRCodeResponse{
		UID:   p.UID,
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Deactivate soft-deletes the caller's own account. The row survives so
// medical records keep a valid patient reference, but the UID lookup and
// login stop matching.
func (s *Service) Deactivate(ctx context.Context, username string) error {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, p.ID)
}

func (s *Service) maskAadhaar(p *Patient) error {
	if p.AadhaarEncrypted == "" {
		return nil
	}
	plain, err := s.phi.DecryptField(p.AadhaarEncrypted)
	if err != nil {
		return fmt.Errorf("decrypt national id for %s: %w", p.ID, err)
	}
	p.AadhaarLast4 = lastN(plain, 4)
	return nil
}

func digitsOf(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
