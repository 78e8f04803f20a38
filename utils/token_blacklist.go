package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

var (
	// revoked token digest -> expiry, used when Redis is unavailable
	blacklist   = map[string]time.Time{}
	blacklistMu sync.Mutex
)

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// BlacklistToken revokes token until expiresAt.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	digest := tokenDigest(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistPrefix+digest, "1", ttl).Err(); err == nil {
			return
		}
	}

	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	now := time.Now()
	for k, exp := range blacklist {
		if now.After(exp) {
			delete(blacklist, k)
		}
	}
	blacklist[digest] = expiresAt
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(token string) bool {
	digest := tokenDigest(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistPrefix+digest).Result()
		if err == nil && n > 0 {
			return true
		}
	}

	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	exp, ok := blacklist[digest]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(blacklist, digest)
		return false
	}
	return true
}
