package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/abhisek/mathquest/internal/logging"
)

const defaultRedisPrefix = "mathquest:"

// RedisOptions configures OpenRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key. Default: "mathquest:".
	Prefix string
}

// RedisStore implements Store on a redis server. Writes are announced on a
// pub/sub channel so every other handle on the same prefix hears about them.
type RedisStore struct {
	rdb     *goredis.Client
	prefix  string
	channel string
	revKey  string
	origin  string
	log     *logging.Logger
}

// changeMessage is the pub/sub payload.
type changeMessage struct {
	Key      string `json:"key"`
	Origin   string `json:"origin"`
	Revision int64  `json:"revision"`
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions, log *logging.Logger) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	origin := uuid.NewString()
	return &RedisStore{
		rdb:     rdb,
		prefix:  prefix,
		channel: prefix + "changes",
		revKey:  prefix + "__revision",
		origin:  origin,
		log:     logging.OrNop(log).With("component", "store.redis", "origin", origin),
	}, nil
}

func (s *RedisStore) Origin() string { return s.origin }

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("set: empty key")
	}
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return s.announce(ctx, key)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return s.announce(ctx, "")
}

func (s *RedisStore) announce(ctx context.Context, key string) error {
	rev, err := s.rdb.Incr(ctx, s.revKey).Result()
	if err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	raw, err := json.Marshal(changeMessage{Key: key, Origin: s.origin, Revision: rev})
	if err != nil {
		return err
	}
	if err := s.rdb.Publish(ctx, s.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	sub := s.rdb.Subscribe(ctx, s.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg changeMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					s.log.Warn("bad change payload", "error", err)
					continue
				}
				if msg.Origin == s.origin {
					continue
				}
				select {
				case out <- Change{Key: msg.Key, Origin: msg.Origin, Revision: msg.Revision}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
