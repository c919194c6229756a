package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	dummyOnce sync.Once
	dummyHash string
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash is a bcrypt hash at the default cost that login compares against when no
// account matches, so unknown emails take as long as wrong passwords.
func DummyHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("formbuilder: no such account")
	})
	return dummyHash
}
