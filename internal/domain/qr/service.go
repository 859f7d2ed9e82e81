package qr

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medichron/api/internal/domain/patient"
	"github.com/medichron/api/internal/platform/cache"
)

const lookupTTL = 5 * time.Minute

// PatientSummary is the subset of patient fields a scanning doctor sees.
// It deliberately excludes contact details and the national ID.
type PatientSummary struct {
	ID          uuid.UUID  `json:"id"`
	UID         string     `json:"uid"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Location    *string    `json:"location,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

type Service struct {
	patients patient.Repository
	cache    cache.Cache
	log      zerolog.Logger
}

func NewService(patients patient.Repository, c cache.Cache, log zerolog.Logger) *Service {
	return &Service{patients: patients, cache: c, log: log}
}

// Scan resolves a QR UID to a patient summary, serving repeat scans from
// cache. Cache failures degrade to a direct lookup, never to an error.
func (s *Service) Scan(ctx context.Context, uid string) (*PatientSummary, error) {
	key := cache.PatientUIDKey(uid)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var summary PatientSummary
		if err := json.Unmarshal(raw, &summary); err == nil {
			return &summary, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	p, err := s.patients.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	summary := &PatientSummary{
		ID:          p.ID,
		UID:         p.UID,
		Username:    p.Username,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Location:    p.Location,
		DateOfBirth: p.DateOfBirth,
	}

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, raw, lookupTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return summary, nil
}
