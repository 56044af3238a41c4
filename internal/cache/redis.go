package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key formats
const (
	userPhoneKeyFmt  = "user:%d:phone_number"
	userStatusKeyFmt = "user:%d:phone_status"
	phoneOwnerKeyFmt = "phone:owner:%s"
)

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully:
// every helper is a no-op when the client is nil.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// CachePhoneDetails writes through a user's phone number and
// verification status. Any previous owner of the same phone number is
// evicted first so the cache never maps one number to two users.
func CachePhoneDetails(ctx context.Context, userID int, phone, status string) {
	if client == nil || phone == "" {
		return
	}

	ownerKey := fmt.Sprintf(phoneOwnerKeyFmt, phone)
	if oldID, err := client.Get(ctx, ownerKey).Int(); err == nil && oldID != userID {
		client.Del(ctx,
			fmt.Sprintf(userPhoneKeyFmt, oldID),
			fmt.Sprintf(userStatusKeyFmt, oldID),
		)
	}

	client.Set(ctx, fmt.Sprintf(userPhoneKeyFmt, userID), phone, 0)
	client.Set(ctx, fmt.Sprintf(userStatusKeyFmt, userID), status, 0)
	client.Set(ctx, ownerKey, userID, 0)
}

// GetCachedPhoneDetails returns the cached phone number and status for
// a user, if present.
func GetCachedPhoneDetails(ctx context.Context, userID int) (phone, status string, ok bool) {
	if client == nil {
		return "", "", false
	}

	phone, err := client.Get(ctx, fmt.Sprintf(userPhoneKeyFmt, userID)).Result()
	if err != nil {
		return "", "", false
	}
	status, err = client.Get(ctx, fmt.Sprintf(userStatusKeyFmt, userID)).Result()
	if err != nil {
		return "", "", false
	}
	return phone, status, true
}

// InvalidatePhoneDetails removes the cached phone details for a user,
// including the reverse owner mapping.
func InvalidatePhoneDetails(ctx context.Context, userID int) {
	if client == nil {
		return
	}

	phoneKey := fmt.Sprintf(userPhoneKeyFmt, userID)
	if phone, err := client.Get(ctx, phoneKey).Result(); err == nil && phone != "" {
		client.Del(ctx, fmt.Sprintf(phoneOwnerKeyFmt, phone))
	}
	client.Del(ctx, phoneKey, fmt.Sprintf(userStatusKeyFmt, userID))
}
