package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	contacts map[uuid.UUID]*Contact
}

func newMockRepo() *mockRepo {
	return &mockRepo{contacts: make(map[uuid.UUID]*Contact)}
}

func (m *mockRepo) Create(_ context.Context, c *Contact) error {
	c.ID = uuid.New()
	m.contacts[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Contact, int, error) {
	var result []*Contact
	for _, c := range m.contacts {
		result = append(result, c)
	}
	return result, len(result), nil
}

func (m *mockRepo) MarkResolved(_ context.Context, id uuid.UUID) error {
	c, ok := m.contacts[id]
	if !ok {
		return ErrNotFound
	}
	c.Resolved = true
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func TestSubmit(t *testing.T) {
	svc := NewService(newMockRepo())

	c := &Contact{FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com", Message: "hello"}
	if err := svc.Submit(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if c.Resolved {
		t.Error("expected new message to be unresolved")
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []Contact{
		{LastName: "Kumar", Email: "ravi@example.com", Message: "hi"},
		{FirstName: "Ravi", Email: "ravi@example.com", Message: "hi"},
		{FirstName: "Ravi", LastName: "Kumar", Email: "bad", Message: "hi"},
		{FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com"},
	}
	for i, c := range cases {
		if err := svc.Submit(context.Background(), &c); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestResolve(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	c := &Contact{FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com", Message: "hello"}
	svc.Submit(context.Background(), c)

	if err := svc.Resolve(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(context.Background(), c.ID)
	if !got.Resolved {
		t.Error("expected message to be resolved")
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Resolve(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	c := &Contact{FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com", Message: "hello"}
	svc.Submit(context.Background(), c)

	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), c.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
