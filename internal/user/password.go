package user

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword enforces the sign-up strength policy: at least 8
// characters with a digit, a lowercase letter, an uppercase letter and a
// special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.New(apperr.KindValidation, "Password must be at least 8 characters")
	}
	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasSpecial = true
		}
	}
	switch {
	case !hasDigit:
		return apperr.New(apperr.KindValidation, "Password must contain at least one number")
	case !hasLower:
		return apperr.New(apperr.KindValidation, "Password must contain at least one lowercase letter")
	case !hasUpper:
		return apperr.New(apperr.KindValidation, "Password must contain at least one uppercase letter")
	case !hasSpecial:
		return apperr.New(apperr.KindValidation, "Password must contain at least one special character")
	}
	return nil
}
