package qr

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medichron/api/internal/domain/patient"
	"github.com/medichron/api/internal/platform/cache"
)

type countingRepo struct {
	patients map[string]*patient.Patient
	lookups  int
}

func (m *countingRepo) Create(_ context.Context, p *patient.Patient) error {
	p.ID = uuid.New()
	m.patients[p.UID] = p
	return nil
}

func (m *countingRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	for _, p := range m.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patient.ErrNotFound
}

func (m *countingRepo) GetByUsername(_ context.Context, username string) (*patient.Patient, error) {
	for _, p := range m.patients {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, patient.ErrNotFound
}

func (m *countingRepo) GetByUID(_ context.Context, uid string) (*patient.Patient, error) {
	m.lookups++
	p, ok := m.patients[uid]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func (m *countingRepo) Update(_ context.Context, p *patient.Patient) error { return nil }

func (m *countingRepo) Deactivate(_ context.Context, id uuid.UUID) error { return nil }

func newTestService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	repo := &countingRepo{patients: make(map[string]*patient.Patient)}
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { mem.Close() })
	return NewService(repo, mem, zerolog.New(os.Stderr)), repo
}

func TestScan(t *testing.T) {
	svc, repo := newTestService(t)
	repo.Create(context.Background(), &patient.Patient{
		Username: "asha", UID: "AV32109012", FirstName: "Asha", LastName: "Verma", Active: true,
	})

	summary, err := svc.Scan(context.Background(), "AV32109012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FirstName != "Asha" || summary.UID != "AV32109012" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestScan_SecondHitServedFromCache(t *testing.T) {
	svc, repo := newTestService(t)
	repo.Create(context.Background(), &patient.Patient{Username: "asha", UID: "AV32109012", Active: true})

	if _, err := svc.Scan(context.Background(), "AV32109012"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Scan(context.Background(), "AV32109012"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lookups != 1 {
		t.Errorf("expected 1 repository lookup, got %d", repo.lookups)
	}
}

func TestScan_UnknownUID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Scan(context.Background(), "NOPE"); err != patient.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
