package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/eduquest/config"
)

// Registration anti-abuse counters live in Redis. Without Redis every check
// fails open so sign-up keeps working.

const regOpTimeout = 500 * time.Millisecond

func regKey(parts ...string) string {
	return "reg:" + strings.Join(parts, ":")
}

// RegistrationCooldownTry enforces a short cooldown between attempts per IP.
func RegistrationCooldownTry(ip string) bool {
	sec := config.Get().RegisterAttemptCooldownSec
	cli := GetRedis()
	if sec <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	ok, err := cli.SetNX(ctx, regKey("cooldown", ip), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		return true
	}
	return ok
}

// RegistrationDailyLimitCheck allows up to N successful registrations per day per IP.
func RegistrationDailyLimitCheck(ip string) bool {
	limit := config.Get().RegisterMaxPerIPPerDay
	cli := GetRedis()
	if limit <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	n, err := cli.Get(ctx, regKey("succday", ip, time.Now().Format("20060102"))).Int()
	if errors.Is(err, redis.Nil) {
		n = 0
	} else if err != nil {
		return true
	}
	return n < limit
}

// RegistrationDailyIncrement increments the success counter for today.
func RegistrationDailyIncrement(ip string) {
	cli := GetRedis()
	if cli == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	key := regKey("succday", ip, time.Now().Format("20060102"))
	if err := cli.Incr(ctx, key).Err(); err == nil {
		ttl := time.Until(time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour))
		_ = cli.Expire(ctx, key, ttl).Err()
	}
}

// RegistrationFailRecord increments the failure count for the current hour and returns it.
func RegistrationFailRecord(ip string) int {
	cli := GetRedis()
	if cli == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	key := regKey("failhour", ip, time.Now().Format("2006010215"))
	n, err := cli.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	_ = cli.Expire(ctx, key, time.Hour).Err()
	return int(n)
}

// RegistrationIsBanned checks temporary ban status for IP.
func RegistrationIsBanned(ip string) bool {
	cli := GetRedis()
	if cli == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	exists, err := cli.Exists(ctx, regKey("ban", ip)).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

// RegistrationBan sets a temporary ban for IP.
func RegistrationBan(ip string) {
	cli := GetRedis()
	if cli == nil {
		return
	}
	minutes := config.Get().RegisterTempBanMinutes
	if minutes <= 0 {
		minutes = 60
	}
	ctx, cancel := context.WithTimeout(context.Background(), regOpTimeout)
	defer cancel()
	_ = cli.Set(ctx, regKey("ban", ip), fmt.Sprintf("ban-%s", ip), time.Duration(minutes)*time.Minute).Err()
}

// RegistrationFailed records a failed attempt and bans the IP once the hourly limit is reached.
func RegistrationFailed(ip string) {
	limit := config.Get().RegisterFailedMaxPerIPPerHour
	if limit <= 0 {
		return
	}
	if RegistrationFailRecord(ip) >= limit {
		RegistrationBan(ip)
	}
}
