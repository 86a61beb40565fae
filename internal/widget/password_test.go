package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nexus/internal/domain/entity"
)

func TestGeneratePasswordLettersOnly(t *testing.T) {
	pw, err := GeneratePassword(entity.PasswordSettings{
		Type:         entity.PasswordTypeRandom,
		RandomLength: 32,
	})
	require.NoError(t, err)
	assert.Len(t, pw, 32)
	for _, r := range pw {
		assert.Contains(t, passwordLetters, string(r))
	}
}

func TestGeneratePasswordFullCharset(t *testing.T) {
	pw, err := GeneratePassword(entity.PasswordSettings{
		Type:           entity.PasswordTypeRandom,
		RandomLength:   64,
		IncludeNumbers: true,
		IncludeSymbols: true,
	})
	require.NoError(t, err)
	assert.Len(t, pw, 64)

	allowed := passwordLetters + passwordNumbers + passwordSymbols
	for _, r := range pw {
		assert.Contains(t, allowed, string(r))
	}
}

func TestGeneratePasswordPIN(t *testing.T) {
	pw, err := GeneratePassword(entity.PasswordSettings{
		Type:      entity.PasswordTypePIN,
		PINLength: 6,
	})
	require.NoError(t, err)
	assert.Len(t, pw, 6)
	assert.Equal(t, "", strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, pw), "PIN output must be digits only")
}

func TestGeneratePasswordInvalidLength(t *testing.T) {
	_, err := GeneratePassword(entity.PasswordSettings{Type: entity.PasswordTypeRandom})
	assert.Error(t, err)

	_, err = GeneratePassword(entity.PasswordSettings{Type: entity.PasswordTypePIN})
	assert.Error(t, err)
}

func TestGeneratePasswordIsNotConstant(t *testing.T) {
	settings := entity.DefaultPasswordSettings()
	settings.RandomLength = 24

	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		pw, err := GeneratePassword(settings)
		require.NoError(t, err)
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 1, "independent draws must differ")
}
