package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. The national-ID column holds only
// ciphertext; the plaintext never leaves the registration path.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Username         string     `db:"username" json:"username"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	Location         *string    `db:"location" json:"location,omitempty"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	AadhaarEncrypted string     `db:"aadhaar_encrypted" json:"-"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	UID              string     `db:"uid" json:"uid"`
	Active           bool       `db:"active" json:"active"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`

	// AadhaarLast4 is filled by the service for profile responses.
	AadhaarLast4 string `db:"-" json:"aadhaar_last4,omitempty"`
}

// GenerateUID builds the short display identifier encoded in the patient's
// QR code: first-name initial, last-name initial, last four phone digits,
// last four national-ID digits.
func GenerateUID(firstName, lastName, phone, aadhaar string) string {
	var b strings.Builder
	b.WriteString(initial(firstName))
	b.WriteString(initial(lastName))
	b.WriteString(lastN(phone, 4))
	b.WriteString(lastN(aadhaar, 4))
	return b.String()
}

// initial returns the upper-cased first rune of s. Slicing by byte would
// split multi-byte characters in non-ASCII names.
func initial(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
