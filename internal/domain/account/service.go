package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medichron/api/internal/domain/doctor"
	"github.com/medichron/api/internal/domain/patient"
	"github.com/medichron/api/internal/platform/auth"
	"github.com/medichron/api/internal/platform/phi"
)

const (
	UserTypePatient = "patient"
	UserTypeDoctor  = "doctor"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords so the login endpoint never leaks which one it was.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("account is deactivated")

	// ErrInvalidInput marks client-correctable validation failures; handlers
	// map it to 400 while anything unrecognized becomes a generic 500.
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	patients patient.Repository
	doctors  doctor.Repository
	hasher   auth.PasswordHasher
	codec    *auth.TokenCodec
	phi      *phi.Service
	isAdmin  func(username string) bool
	tokenTTL time.Duration
}

func NewService(
	patients patient.Repository,
	doctors doctor.Repository,
	hasher auth.PasswordHasher,
	codec *auth.TokenCodec,
	phiSvc *phi.Service,
	isAdmin func(username string) bool,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		patients: patients,
		doctors:  doctors,
		hasher:   hasher,
		codec:    codec,
		phi:      phiSvc,
		isAdmin:  isAdmin,
		tokenTTL: tokenTTL,
	}
}

type RegisterPatientInput struct {
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Location    *string    `json:"location"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Aadhaar     string     `json:"aadhaar"`
	Phone       string     `json:"phone"`
}

func (s *Service) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*patient.Patient, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	if err := validateAadhaar(in.Aadhaar); err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	encrypted, err := s.phi.EncryptField(in.Aadhaar)
	if err != nil {
		return nil, fmt.Errorf("encrypt national id: %w", err)
	}

	phone := in.Phone
	p := &patient.Patient{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     hash,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Location:         in.Location,
		DateOfBirth:      in.DateOfBirth,
		AadhaarEncrypted: encrypted,
		Phone:            &phone,
		UID:              patient.GenerateUID(in.FirstName, in.LastName, in.Phone, in.Aadhaar),
		Active:           true,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type RegisterDoctorInput struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Specialization *string `json:"specialization"`
	LicenseNumber  string  `json:"license_number"`
	Phone          *string `json:"phone"`
	Location       *string `json:"location"`
}

func (s *Service) RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*doctor.Doctor, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}
	if in.LicenseNumber == "" {
		return nil, fmt.Errorf("%w: license_number is required", ErrInvalidInput)
	}
	if in.Phone != nil {
		if err := validatePhone(*in.Phone); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &doctor.Doctor{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		Phone:          in.Phone,
		Location:       in.Location,
		Active:         true,
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// TokenResponse is the login payload: a bearer token and its lifetime in
// seconds.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	var (
		hash   string
		active bool
		role   string
	)

	switch in.UserType {
	case UserTypeDoctor:
		d, err := s.doctors.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		hash, active, role = d.PasswordHash, d.Active, auth.RoleDoctor
	case UserTypePatient, "":
		p, err := s.patients.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		hash, active, role = p.PasswordHash, p.Active, auth.RolePatient
	default:
		return nil, fmt.Errorf("%w: unknown user_type %q", ErrInvalidInput, in.UserType)
	}

	if !s.hasher.Verify(in.Password, hash) {
		return nil, ErrInvalidCredentials
	}
	if !active {
		return nil, ErrInactiveAccount
	}

	roles := []string{role}
	if s.isAdmin != nil && s.isAdmin(in.Username) {
		roles = append(roles, auth.RoleAdmin)
	}

	token, err := s.codec.Issue(in.Username, roles, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
