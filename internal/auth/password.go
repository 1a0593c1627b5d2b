package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit, counted in bytes.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func isPasswordRuleError(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrPasswordTooLong)
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy runs a bcrypt comparison against a fixed hash. Used when no
// user matches so the response time does not reveal registered emails.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		hash, _ := bcrypt.GenerateFromPassword([]byte("planazo-dummy-password"), bcrypt.DefaultCost)
		dummyHash = string(hash)
	})
	CheckPassword(password, dummyHash)
}
