package board

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword derives the stored form of a post password:
// hex(SHA-256(password + salt)). Posts are throwaway-protected, not
// accounts, so a salted digest matches the threat model.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks a candidate password against a stored hash in
// constant time.
func VerifyPassword(password, salt, storedHash string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1
}
