// Package passwords wraps the one-way password hash used for credentials.
package passwords

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt digest from the plaintext. Equal inputs yield
// different digests because the salt is random.
func Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches digest. A mismatch is not an
// error, just false.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
