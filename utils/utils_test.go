package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/eduquest/config"
)

func TestMain(m *testing.M) {
	config.Set(config.AppConfig{JWTSecret: "test-secret", RedisDisabled: true, LogLevel: "silent"})
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u-1", "alex@example.com", "student", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alex@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	first, err := GenerateToken("u-9", "mike@example.com", "student", time.Hour)
	require.NoError(t, err)
	BlacklistToken(first, time.Now().Add(time.Hour))

	second, err := GenerateToken("u-9", "mike@example.com", "student", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, IsTokenBlacklisted(first))
	assert.False(t, IsTokenBlacklisted(second))

	a, err := ParseToken(first)
	require.NoError(t, err)
	b, err := ParseToken(second)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("u-1", "alex@example.com", "student", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestTokenTTLDefault(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TokenTTL())
}

func TestBlacklistFallsBackToMemory(t *testing.T) {
	require.Nil(t, GetRedis())

	BlacklistToken("tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("tok-a"))
	assert.False(t, IsTokenBlacklisted("tok-b"))

	// already expired tokens are not stored
	BlacklistToken("tok-c", time.Now().Add(-time.Second))
	assert.False(t, IsTokenBlacklisted("tok-c"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  <b>hello</b><script>alert(1)</script> "))
	assert.Equal(t, "<b>hi</b>", Sanitize(`<b onclick="x()">hi</b>`))
}

func TestRegistrationChecksFailOpenWithoutRedis(t *testing.T) {
	assert.True(t, RegistrationCooldownTry("1.2.3.4"))
	assert.True(t, RegistrationDailyLimitCheck("1.2.3.4"))
	assert.False(t, RegistrationIsBanned("1.2.3.4"))
	assert.Zero(t, RegistrationFailRecord("1.2.3.4"))
}

func TestCacheIsNoopWithoutRedis(t *testing.T) {
	CacheSetJSON(CacheLeaderboardKey, map[string]int{"a": 1}, time.Minute)
	var out map[string]int
	assert.False(t, CacheGetJSON(CacheLeaderboardKey, &out))
}
