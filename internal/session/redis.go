package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash key used when none is configured.
const DefaultRedisKey = "todolist:session"

// RedisStore keeps the session as a Redis hash with the fields
// isLoggedIn, email and token.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore returns a store using client and the given hash key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// DialRedis creates a Redis client and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Load reads the hash. A missing key is a logged-out session.
func (r *RedisStore) Load(ctx context.Context) (Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if len(fields) == 0 {
		return Session{}, nil
	}

	var s Session
	if v, ok := fields[KeyLoggedIn]; ok {
		s.IsLoggedIn, err = strconv.ParseBool(v)
		if err != nil {
			return Session{}, fmt.Errorf("invalid %s value %q: %w", KeyLoggedIn, v, err)
		}
	}
	s.Email = fields[KeyEmail]
	s.Token = fields[KeyToken]
	return s, nil
}

// Save overwrites every field of the hash.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	err := r.client.HSet(ctx, r.key, map[string]interface{}{
		KeyLoggedIn: strconv.FormatBool(s.IsLoggedIn),
		KeyEmail:    s.Email,
		KeyToken:    s.Token,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear deletes the hash.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
