package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medichron/api/internal/domain/record"
)

func TestMedicalRecordRepo(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := record.NewRepo(globalDB.Pool)

	p := createTestPatient(t, ctx, "rec_pat_"+uniqueSuffix(), "Asha", "Verma")
	d := createTestDoctor(t, ctx, "rec_doc_"+uniqueSuffix(), "Rohit", "Rao")

	newRecord := func(visit time.Time) *record.MedicalRecord {
		return &record.MedicalRecord{
			PatientID: p.ID,
			DoctorID:  d.ID,
			VisitDate: visit,
			Symptoms:  "persistent cough",
			Diagnosis: "bronchitis",
			Treatment: "rest and fluids",
			Notes:     ptrStr("follow up in two weeks"),
		}
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		rec := newRecord(time.Now().UTC().Truncate(time.Second))
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.GetByID(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.PatientID != p.ID || got.DoctorID != d.ID {
			t.Errorf("references = (%s, %s), want (%s, %s)", got.PatientID, got.DoctorID, p.ID, d.ID)
		}
		if got.Diagnosis != "bronchitis" {
			t.Errorf("diagnosis = %q", got.Diagnosis)
		}
		if got.Notes == nil || *got.Notes != "follow up in two weeks" {
			t.Errorf("notes = %v", got.Notes)
		}
	})

	t.Run("UpdateKeepsReferences", func(t *testing.T) {
		rec := newRecord(time.Now().UTC())
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}

		rec.Diagnosis = "viral bronchitis"
		rec.Notes = nil
		if err := repo.Update(ctx, rec); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := repo.GetByID(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetByID after update: %v", err)
		}
		if got.Diagnosis != "viral bronchitis" {
			t.Errorf("diagnosis = %q, want updated value", got.Diagnosis)
		}
		if got.Notes != nil {
			t.Errorf("notes = %v, want nil", got.Notes)
		}
		if got.PatientID != p.ID || got.DoctorID != d.ID {
			t.Error("update must not change patient or doctor references")
		}
	})

	t.Run("ListByPatientOrdering", func(t *testing.T) {
		truncateAll(t, ctx)
		p = createTestPatient(t, ctx, "list_pat_"+uniqueSuffix(), "Meena", "Iyer")
		d = createTestDoctor(t, ctx, "list_doc_"+uniqueSuffix(), "Sanjay", "Sen")

		base := time.Now().UTC().Truncate(time.Second)
		for i := 0; i < 3; i++ {
			rec := newRecord(base.Add(time.Duration(i) * time.Hour))
			if err := repo.Create(ctx, rec); err != nil {
				t.Fatalf("Create %d: %v", i, err)
			}
		}

		recs, total, err := repo.ListByPatient(ctx, p.ID, 2, 0)
		if err != nil {
			t.Fatalf("ListByPatient: %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if len(recs) != 2 {
			t.Fatalf("len = %d, want 2", len(recs))
		}
		if recs[0].VisitDate.Before(recs[1].VisitDate) {
			t.Error("expected newest visit first")
		}

		byDoctor, total, err := repo.ListByDoctor(ctx, d.ID, 10, 0)
		if err != nil {
			t.Fatalf("ListByDoctor: %v", err)
		}
		if total != 3 || len(byDoctor) != 3 {
			t.Errorf("ListByDoctor = %d records, total %d, want 3/3", len(byDoctor), total)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		rec := newRecord(time.Now().UTC())
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := repo.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, rec.ID); !errors.Is(err, record.ErrNotFound) {
			t.Fatalf("GetByID after delete = %v, want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, record.ErrNotFound) {
			t.Fatalf("Delete unknown = %v, want ErrNotFound", err)
		}
	})
}
