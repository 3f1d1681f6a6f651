package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the cache client. Redis is optional: an empty addr
// or an unreachable server returns nil and callers skip caching.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis not reachable at %s: %v, caching disabled", addr, err)
		return nil
	}

	log.Println("Connected to Redis")
	return client
}
