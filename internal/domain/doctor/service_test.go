package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Username == username {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	d, ok := m.doctors[id]
	if !ok {
		return ErrNotFound
	}
	d.Active = false
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if d.Active {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

func TestProfile(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Doctor{Username: "drrao", FirstName: "Meera", Active: true})

	svc := NewService(repo)
	d, err := svc.Profile(context.Background(), "drrao")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.FirstName != "Meera" {
		t.Errorf("expected Meera, got %q", d.FirstName)
	}
}

func TestProfile_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Profile(context.Background(), "ghost"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Doctor{Username: "drrao", Active: true})

	svc := NewService(repo)
	spec := "cardiology"
	d, err := svc.UpdateProfile(context.Background(), "drrao", UpdateInput{
		Email:          "rao@example.com",
		Specialization: &spec,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Email != "rao@example.com" {
		t.Errorf("expected email updated, got %q", d.Email)
	}
	if d.Specialization == nil || *d.Specialization != "cardiology" {
		t.Error("expected specialization updated")
	}
}

func TestUpdateProfile_RejectsBadEmail(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Doctor{Username: "drrao", Active: true})

	svc := NewService(repo)
	if _, err := svc.UpdateProfile(context.Background(), "drrao", UpdateInput{Email: "bad"}); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestDeactivate(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Doctor{Username: "drrao", Active: true})

	svc := NewService(repo)
	if err := svc.Deactivate(context.Background(), "drrao"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deactivated doctors drop out of listings while the row survives.
	doctors, _, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctors) != 0 {
		t.Errorf("expected no active doctors, got %d", len(doctors))
	}
	d, err := repo.GetByUsername(context.Background(), "drrao")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Active {
		t.Error("expected active=false after deactivation")
	}
}

func TestDeactivate_UnknownUser(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Deactivate(context.Background(), "ghost"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_ActiveOnly(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Doctor{Username: "a", Active: true})
	repo.Create(context.Background(), &Doctor{Username: "b", Active: false})

	svc := NewService(repo)
	doctors, total, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(doctors) != 1 {
		t.Errorf("expected 1 active doctor, got %d", len(doctors))
	}
}
