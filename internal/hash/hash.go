package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

// MaxPasswordBytes is the most bcrypt will look at.
const MaxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, bcrypt.DefaultCost)
}

// HashPasswordCost is used by the seeder and tests where DefaultCost is slow.
func HashPasswordCost(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password longer than %d bytes: %w", MaxPasswordBytes, apperr.ErrValidation)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
