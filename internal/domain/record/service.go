package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medichron/api/internal/domain/doctor"
	"github.com/medichron/api/internal/domain/patient"
)

type Service struct {
	records  Repository
	patients patient.Repository
	doctors  doctor.Repository
}

func NewService(records Repository, patients patient.Repository, doctors doctor.Repository) *Service {
	return &Service{records: records, patients: patients, doctors: doctors}
}

// CreateInput carries a new record. The authoring doctor is taken from the
// caller, never from the payload.
type CreateInput struct {
	PatientID uuid.UUID  `json:"patient_id"`
	VisitDate *time.Time `json:"visit_date"`
	Symptoms  string     `json:"symptoms"`
	Diagnosis string     `json:"diagnosis"`
	Treatment string     `json:"treatment"`
	Notes     *string    `json:"notes"`
}

func (s *Service) Create(ctx context.Context, p Principal, in CreateInput) (*MedicalRecord, error) {
	if !p.Doctor {
		return nil, ErrDenied
	}
	d, err := s.doctors.GetByUsername(ctx, p.Username)
	if err != nil {
		return nil, ErrDenied
	}
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	if in.Symptoms == "" || in.Diagnosis == "" || in.Treatment == "" {
		return nil, fmt.Errorf("%w: symptoms, diagnosis and treatment are required", ErrInvalidInput)
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown patient %s", ErrInvalidInput, in.PatientID)
		}
		return nil, fmt.Errorf("look up patient %s: %w", in.PatientID, err)
	}

	visit := time.Now().UTC()
	if in.VisitDate != nil {
		visit = *in.VisitDate
	}
	rec := &MedicalRecord{
		PatientID: in.PatientID,
		DoctorID:  d.ID,
		VisitDate: visit,
		Symptoms:  in.Symptoms,
		Diagnosis: in.Diagnosis,
		Treatment: in.Treatment,
		Notes:     in.Notes,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get enforces the read rule: a record is visible to its patient, its
// authoring doctor and admins. Everyone else is denied, including doctors
// who did not author it.
func (s *Service) Get(ctx context.Context, p Principal, id uuid.UUID) (*MedicalRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, p, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateInput carries the mutable clinical fields. patient_id and doctor_id
// are deliberately absent.
type UpdateInput struct {
	VisitDate *time.Time `json:"visit_date"`
	Symptoms  string     `json:"symptoms"`
	Diagnosis string     `json:"diagnosis"`
	Treatment string     `json:"treatment"`
	Notes     *string    `json:"notes"`
}

func (s *Service) Update(ctx context.Context, p Principal, id uuid.UUID, in UpdateInput) (*MedicalRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(ctx, p, rec); err != nil {
		return nil, err
	}

	if in.VisitDate != nil {
		rec.VisitDate = *in.VisitDate
	}
	if in.Symptoms != "" {
		rec.Symptoms = in.Symptoms
	}
	if in.Diagnosis != "" {
		rec.Diagnosis = in.Diagnosis
	}
	if in.Treatment != "" {
		rec.Treatment = in.Treatment
	}
	if in.Notes != nil {
		rec.Notes = in.Notes
	}

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, p Principal, id uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeWrite(ctx, p, rec); err != nil {
		return err
	}
	return s.records.Delete(ctx, id)
}

// ListMine returns the caller's own records: visit history for patients,
// authored records for doctors.
func (s *Service) ListMine(ctx context.Context, p Principal, limit, offset int) ([]*MedicalRecord, int, error) {
	if p.Doctor {
		d, err := s.doctors.GetByUsername(ctx, p.Username)
		if err != nil {
			return nil, 0, ErrDenied
		}
		return s.records.ListByDoctor(ctx, d.ID, limit, offset)
	}
	pat, err := s.patients.GetByUsername(ctx, p.Username)
	if err != nil {
		return nil, 0, ErrDenied
	}
	return s.records.ListByPatient(ctx, pat.ID, limit, offset)
}

func (s *Service) authorizeRead(ctx context.Context, p Principal, rec *MedicalRecord) error {
	if p.Admin {
		return nil
	}
	if p.Doctor {
		d, err := s.doctors.GetByUsername(ctx, p.Username)
		if err == nil && d.ID == rec.DoctorID {
			return nil
		}
		return ErrDenied
	}
	pat, err := s.patients.GetByUsername(ctx, p.Username)
	if err == nil && pat.ID == rec.PatientID {
		return nil
	}
	return ErrDenied
}

// authorizeWrite allows only the authoring doctor (and admins); patients
// never write records, their own included.
func (s *Service) authorizeWrite(ctx context.Context, p Principal, rec *MedicalRecord) error {
	if p.Admin {
		return nil
	}
	if !p.Doctor {
		return ErrDenied
	}
	d, err := s.doctors.GetByUsername(ctx, p.Username)
	if err == nil && d.ID == rec.DoctorID {
		return nil
	}
	return ErrDenied
}
