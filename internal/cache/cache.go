package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ActiveProductsKey caches the public catalog listing.
	ActiveProductsKey = "products:active"
	// ProductTTL bounds staleness for catalog reads served from cache.
	ProductTTL = 5 * time.Minute
)

// New connects a redis client, or returns nil when addr is empty or the
// server is unreachable. Callers treat a nil client as "caching disabled".
func New(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: 0})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("WARNING: redis unreachable at %s: %v; caching disabled", addr, err)
		return nil
	}
	return client
}

// ProductKey keys a single product payload.
func ProductKey(id string) string { return "product:" + id }
