package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMaker(accessTTL, refreshTTL time.Duration) *MakerImpl {
	return NewJWTMaker("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestMaker_AccessTokenRoundTrip(t *testing.T) {
	maker := newTestMaker(time.Hour, 168*time.Hour)

	tok, err := maker.GenerateAccessToken("uid-123", "standard_user")
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := maker.ParseAccessToken(tok)
	assert.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UserUID)
	assert.Equal(t, "standard_user", claims.Role)
}

func TestMaker_RefreshTokenRoundTrip(t *testing.T) {
	maker := newTestMaker(time.Hour, 168*time.Hour)

	tok, err := maker.GenerateRefreshToken("uid-123", "admin")
	assert.NoError(t, err)

	claims, err := maker.ParseRefreshToken(tok)
	assert.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UserUID)
	assert.Equal(t, "admin", claims.Role)
}

func TestMaker_SecretsAreSeparate(t *testing.T) {
	// Access-токен нельзя предъявить как refresh и наоборот.
	maker := newTestMaker(time.Hour, 168*time.Hour)

	access, err := maker.GenerateAccessToken("uid-123", "standard_user")
	assert.NoError(t, err)
	refresh, err := maker.GenerateRefreshToken("uid-123", "standard_user")
	assert.NoError(t, err)

	_, err = maker.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = maker.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := newTestMaker(-time.Minute, -time.Minute)

	tok, err := maker.GenerateAccessToken("uid-123", "standard_user")
	assert.NoError(t, err)

	_, err = maker.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestMaker_WrongSecret(t *testing.T) {
	maker := newTestMaker(time.Hour, time.Hour)
	other := NewJWTMaker("other-secret", "other-refresh", time.Hour, time.Hour)

	tok, err := maker.GenerateAccessToken("uid-123", "standard_user")
	assert.NoError(t, err)

	_, err = other.ParseAccessToken(tok)
	assert.Error(t, err)
}
