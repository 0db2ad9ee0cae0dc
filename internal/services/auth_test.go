package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() TokenService {
	return TokenService{
		Secret:    []byte("test-secret"),
		Issuer:    "senidea",
		AccessTTL: 4 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := testTokens()

	signed, exp, err := tokens.CreateAccessToken(42, "admin@example.org", "Admin")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "access", claims["typ"])
	assert.Equal(t, "Admin", claims["role"])
	assert.Equal(t, "admin@example.org", claims["email"])
	assert.Equal(t, "senidea", claims["iss"])

	id, ok := SubjectID(claims)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokens := testTokens()
	signed, _, err := tokens.CreateAccessToken(1, "a@b.c", "Visitor")
	require.NoError(t, err)

	other := TokenService{Secret: []byte("different"), Issuer: "senidea", AccessTTL: time.Hour}
	_, _, err = other.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	other := TokenService{Secret: []byte("test-secret"), Issuer: "someone-else", AccessTTL: time.Hour}
	signed, _, err := other.CreateAccessToken(1, "a@b.c", "Visitor")
	require.NoError(t, err)

	_, _, err = testTokens().ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tokens := testTokens()
	tokens.AccessTTL = -time.Minute

	signed, _, err := tokens.CreateAccessToken(1, "a@b.c", "Visitor")
	require.NoError(t, err)

	_, _, err = tokens.ParseToken(signed)
	assert.Error(t, err)
}

func TestSubjectIDRejectsNonNumeric(t *testing.T) {
	_, ok := SubjectID(map[string]interface{}{"sub": "not-a-number"})
	assert.False(t, ok)
	_, ok = SubjectID(map[string]interface{}{})
	assert.False(t, ok)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	tokens := testTokens()

	hashed, err := tokens.HashPassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, hashed, "$argon2id$")

	assert.True(t, tokens.VerifyPassword("hunter2", hashed))
	assert.False(t, tokens.VerifyPassword("hunter3", hashed))
	assert.False(t, tokens.VerifyPassword("hunter2", "not-a-hash"))
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	// Rows imported from the previous deployment carry bcrypt hashes.
	legacy, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := testTokens()
	assert.True(t, tokens.VerifyPassword("hunter2", string(legacy)))
	assert.False(t, tokens.VerifyPassword("wrong", string(legacy)))
}
