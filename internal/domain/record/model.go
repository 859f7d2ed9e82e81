package record

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord maps to the medical_records table. The patient and authoring
// doctor references are fixed at creation; updates may only touch the
// clinical fields.
type MedicalRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	VisitDate time.Time `db:"visit_date" json:"visit_date"`
	Symptoms  string    `db:"symptoms" json:"symptoms"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Treatment string    `db:"treatment" json:"treatment"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Principal identifies the authenticated caller for authorization decisions.
type Principal struct {
	Username string
	Doctor   bool
	Admin    bool
}
