package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseCredential_ExtractsSubjectAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	tokenString := signTestToken(t, jwtlib.MapClaims{
		"sub": "subject-42",
		"exp": exp,
	})

	cred, err := ParseCredential(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "subject-42", cred.SubjectID)
	assert.Equal(t, exp, cred.ExpiresAt.Unix())
	assert.Equal(t, tokenString, cred.Token)
}

func TestParseCredential_MissingSubject(t *testing.T) {
	tokenString := signTestToken(t, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseCredential(tokenString)

	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestParseCredential_Garbage(t *testing.T) {
	_, err := ParseCredential("not-a-token")

	assert.Error(t, err)
}

func TestCredential_Valid(t *testing.T) {
	now := time.Now()

	expired := &Credential{SubjectID: "s", ExpiresAt: now.Add(-time.Minute)}
	assert.ErrorIs(t, expired.Valid(now), ErrTokenExpired)

	live := &Credential{SubjectID: "s", ExpiresAt: now.Add(time.Minute)}
	assert.NoError(t, live.Valid(now))

	// No expiry claim means the credential never goes stale locally.
	noExpiry := &Credential{SubjectID: "s"}
	assert.NoError(t, noExpiry.Valid(now))
}
