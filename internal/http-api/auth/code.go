// Package auth generates and checks email confirmation codes. A code is an
// HMAC over the user's id and a digest of the profile state, so any profile
// change invalidates every outstanding code without storing anything.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"strings"

	"titlehub/internal/http-api/models"

	"golang.org/x/crypto/blake2b"
)

// codeLen keeps codes short enough to retype from an email.
const codeLen = 20

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// stateHash digests the fields whose change must rotate the code.
func stateHash(user *models.User) []byte {
	h, _ := blake2b.New256(nil)
	for _, field := range []string{user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}

// MakeCode derives the user's current confirmation code. Deterministic for a
// given (secret, user state) pair.
func MakeCode(secret string, user *models.User) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(user.ID))
	mac.Write(stateHash(user))
	sum := mac.Sum(nil)
	return strings.ToLower(codeEncoding.EncodeToString(sum))[:codeLen]
}

// CheckCode reports whether code matches the user's current state. The
// comparison is constant time.
func CheckCode(secret string, user *models.User, code string) bool {
	want := MakeCode(secret, user)
	return hmac.Equal([]byte(want), []byte(code))
}
