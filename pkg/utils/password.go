package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"go-crm-api/internal/domain"
)

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// ValidatePassword 注册口令强度校验：最少 8 位且不能是纯数字
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return domain.Invalid("password", "password must be at least 8 characters")
	}
	allDigits := true
	for _, r := range pw {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return domain.Invalid("password", "password cannot be entirely numeric")
	}
	return nil
}
