package ratelimit

import (
	"context"
	"log"
	"time"

	"quantix-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	window   = 1 * time.Minute
	maxCount = 5 // attempts per IP per window
)

var client *redis.Client

// Init connects to redis when an address is configured. Rate limiting is a
// best-effort guard on the auth endpoints, so a missing or unreachable redis
// just disables it.
func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		return
	}

	client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Redis unreachable at %s, rate limiting disabled: %v", cfg.RedisAddr, err)
		client = nil
		return
	}
	log.Println("Redis connected, auth rate limiting enabled.")
}

// Middleware limits requests per client IP using INCR + EXPIRE.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Next()
		}

		key := "rate_limit:" + c.IP()

		count, err := client.Incr(c.Context(), key).Result()
		if err != nil {
			// redis hiccup, let the request through
			return c.Next()
		}
		if count == 1 {
			client.Expire(c.Context(), key, window)
		}
		if count > maxCount {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, try again later")
		}

		return c.Next()
	}
}
