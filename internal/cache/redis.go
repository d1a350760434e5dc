package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens the Redis client, or returns nil when no host is configured.
func Connect(ctx context.Context, host, password string) (*redis.Client, error) {
	if host == "" {
		log.Println("⚠️ REDIS_HOST not set, cache, token revocation and cart sync disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         host,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Println("✅ Connected to Redis")
	return client, nil
}

// --- Cart sync ---

const (
	CartEventUpdated = "updated"
	CartEventCleared = "cleared"
)

func CartChannel(customerID uint) string {
	return "cart:" + strconv.FormatUint(uint64(customerID), 10)
}

// CartNotifier fans cart changes out to the websocket subscribers of a customer.
type CartNotifier struct {
	rdb *redis.Client
}

func NewCartNotifier(rdb *redis.Client) *CartNotifier {
	return &CartNotifier{rdb: rdb}
}

func (n *CartNotifier) CartChanged(ctx context.Context, customerID uint, event string) {
	if err := n.rdb.Publish(ctx, CartChannel(customerID), event).Err(); err != nil {
		log.Printf("⚠️ Cart publish failed for customer %d: %v", customerID, err)
	}
}

func (n *CartNotifier) Subscribe(ctx context.Context, customerID uint) *redis.PubSub {
	return n.rdb.Subscribe(ctx, CartChannel(customerID))
}
