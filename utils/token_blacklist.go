package utils

import (
	"sync"
	"time"
)

const blacklistKeyPrefix = "jwt:blacklist:"

var (
	revokedTokens = map[string]time.Time{}
	revokedMu     sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration. Redis carries
// the entry when available; otherwise a process-local map does, which is only
// correct for single-node deployments.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	if rc := GetRedis(); rc != nil {
		ctx, cancel := cacheCtx()
		defer cancel()
		_ = rc.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
		return
	}

	revokedMu.Lock()
	revokedTokens[token] = expiresAt
	revokedMu.Unlock()
}

// IsTokenBlacklisted reports whether a token was revoked before its natural
// expiration. Redis errors fail open so a cache outage cannot lock every
// caller out.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := cacheCtx()
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil {
			return n > 0
		}
		return false
	}

	revokedMu.RLock()
	expiresAt, ok := revokedTokens[token]
	revokedMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(expiresAt) {
		revokedMu.Lock()
		delete(revokedTokens, token)
		revokedMu.Unlock()
		return false
	}
	return true
}
