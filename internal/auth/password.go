package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost mirrors the cost the original deployment hashed with.
const bcryptCost = 10

// Credential is the stored password representation. Rows written before
// hashed storage hold the plaintext value; everything else is a bcrypt hash.
type Credential struct {
	value  string
	hashed bool
}

// ParseCredential converts the raw stored string into its tagged form.
// Bcrypt strings are self-describing via their version prefix; anything
// without that prefix is a legacy plaintext credential.
func ParseCredential(stored string) Credential {
	return Credential{value: stored, hashed: isBcryptHash(stored)}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}

// Hashed reports whether the credential already carries a bcrypt hash.
func (c Credential) Hashed() bool { return c.hashed }

// Verify checks presented against the stored credential.
//
// For a hashed credential it is a constant-time bcrypt comparison and never
// returns an upgrade. For a legacy plaintext credential it is byte equality;
// on success it returns the bcrypt hash of the presented password as
// upgraded, which the caller must persist in place of the plaintext value.
// Verify itself never touches storage.
func (c Credential) Verify(presented string) (ok bool, upgraded string) {
	if c.hashed {
		err := bcrypt.CompareHashAndPassword([]byte(c.value), []byte(presented))
		return err == nil, ""
	}

	if presented != c.value {
		return false, ""
	}

	h, err := bcrypt.GenerateFromPassword([]byte(presented), bcryptCost)
	if err != nil {
		// Login still succeeds; the migration is simply skipped this round.
		return true, ""
	}
	return true, string(h)
}

// HashPassword produces a bcrypt hash for out-of-band account provisioning.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
