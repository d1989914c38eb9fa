package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a raw password. Called once, at
// sign-up. The raw password is never stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the raw password matches the stored bcrypt
// hash. bcrypt performs the comparison in constant time.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
