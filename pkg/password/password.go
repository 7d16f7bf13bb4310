package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a bcrypt hash (per-hash random salt) from the plaintext.
// The plaintext is never stored or logged anywhere in the system.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches reports whether the plaintext corresponds to the stored hash.
// An empty hash (externally-authenticated user) never matches anything.
func Matches(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
