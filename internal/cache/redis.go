// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Rdb is the global Redis client. Connect it once at application startup.
// All helpers degrade to a miss when the client is nil or Redis is down, so
// the store remains the source of truth.
var Rdb *redis.Client

// friendsListTTL bounds staleness if an invalidation is lost.
const friendsListTTL = 5 * time.Minute

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

func friendsListKey(userID uuid.UUID) string {
	return "friends_list:" + userID.String()
}

// GetFriendsList returns the cached friends list for the user, reporting a
// miss when nothing usable is cached.
func GetFriendsList(ctx context.Context, userID uuid.UUID) ([]string, bool) {
	if Rdb == nil {
		return nil, false
	}
	data, err := Rdb.Get(ctx, friendsListKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		log.WithField("user_id", userID).Warnf("dropping malformed friends list cache entry: %v", err)
		return nil, false
	}
	return names, true
}

// SetFriendsList caches the friends list for the user.
func SetFriendsList(ctx context.Context, userID uuid.UUID, names []string) {
	if Rdb == nil {
		return
	}
	data, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := Rdb.Set(ctx, friendsListKey(userID), data, friendsListTTL).Err(); err != nil {
		log.Warnf("failed to cache friends list for %s: %v", userID, err)
	}
}

// InvalidateFriendsList drops the cached lists for every given account.
// Called for both sides of a pair on any friendship mutation.
func InvalidateFriendsList(ctx context.Context, userIDs ...uuid.UUID) {
	if Rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, friendsListKey(id))
	}
	if err := Rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warnf("failed to invalidate friends list cache: %v", err)
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
