package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "driveway-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// PHC format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")
			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	// Each hash should be different due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// But all should verify the same password
	require.NoError(t, VerifyPassword(password, hash1))
	require.NoError(t, VerifyPassword(password, hash2))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Abc12345")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Abc12345", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("Abc12346", hash), ErrPasswordMismatch)
	})

	t.Run("malformed hash", func(t *testing.T) {
		require.Error(t, VerifyPassword("Abc12345", "not-a-phc-hash"))
		require.Error(t, VerifyPassword("Abc12345", "$bcrypt$v=19$m=1,t=1,p=1$aaaa$bbbb"))
		require.Error(t, VerifyPassword("Abc12345", ""))
	})
}

func TestGenerateToken(t *testing.T) {
	tok1, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	tok2, err := GenerateToken(TokenSize128)
	require.NoError(t, err)

	require.NotEmpty(t, tok1)
	require.NotEqual(t, tok1, tok2)

	_, err = GenerateToken(0)
	require.Error(t, err)
	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestConstantTimeEqual(t *testing.T) {
	tok := MustGenerateToken(TokenSize128)

	require.True(t, ConstantTimeEqual(tok, tok))
	require.False(t, ConstantTimeEqual(tok, tok[:len(tok)-1]))
	require.False(t, ConstantTimeEqual(tok, ""))
	require.False(t, ConstantTimeEqual("", tok))

	// Differ by a single character
	flipped := []byte(tok)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}
	require.False(t, ConstantTimeEqual(tok, string(flipped)))
}
