// utils/codes.go - Opaque token generation
package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const accessCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateAccessCode returns an unguessable join code for a challenge.
// The alphabet omits visually ambiguous characters (0/O, 1/I) since
// instructors read these codes out loud to a classroom.
func GenerateAccessCode(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = accessCodeChars[int(b[i])%len(accessCodeChars)]
	}
	return string(b)
}

// GenerateSecureToken generates a cryptographically secure random token,
// used as a participant's private join token.
func GenerateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.URLEncoding.EncodeToString(b)
}
