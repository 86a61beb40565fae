package widget

import (
	"crypto/rand"
	"fmt"

	"github.com/bnema/nexus/internal/domain/entity"
)

const (
	passwordLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// Digits appear twice so that enabling numbers roughly doubles their
	// weight relative to a single run.
	passwordNumbers = "01234567890123456789"
	passwordSymbols = "!@#$%&*-_+=?"
)

// GeneratePassword produces a password per the given settings using the
// platform CSPRNG. Each output byte is an independent draw, mapped onto
// the charset by modulo.
func GeneratePassword(settings entity.PasswordSettings) (string, error) {
	if settings.Type == entity.PasswordTypePIN {
		return generatePIN(settings.PINLength)
	}

	length := settings.RandomLength
	if length <= 0 {
		return "", fmt.Errorf("invalid password length %d", length)
	}

	charset := passwordLetters
	if settings.IncludeNumbers {
		charset += passwordNumbers
	}
	if settings.IncludeSymbols {
		charset += passwordSymbols
	}

	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range raw {
		out[i] = charset[int(b)%len(charset)]
	}
	return string(out), nil
}

func generatePIN(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid pin length %d", length)
	}
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, length)
	for i, b := range raw {
		out[i] = '0' + b%10
	}
	return string(out), nil
}
