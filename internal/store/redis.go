package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/sakshamg567/sketchy/backend/internal/room"
	"github.com/sakshamg567/sketchy/backend/logger"
)

// Hash fields of a room record.
const (
	fieldPlayers       = "players"
	fieldCurrentDrawer = "currentDrawer"
	fieldWord          = "word"
	fieldGameStatus    = "gameStatus"
)

// maxUpdateAttempts bounds the optimistic WATCH/EXEC loop in Update.
const maxUpdateAttempts = 32

type Options struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps one hash per room, keyed by the room id.
type RedisStore struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewPool(opts Options) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     16,
		IdleTimeout: 4 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", opts.Addr,
				redis.DialPassword(opts.Password),
				redis.DialDatabase(opts.DB),
				redis.DialConnectTimeout(5*time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// NewRedisStore wraps pool. A positive ttl is reapplied to a room key on
// every write.
func NewRedisStore(pool *redis.Pool, ttl time.Duration) *RedisStore {
	return &RedisStore{pool: pool, ttl: ttl}
}

// Ping checks that the store is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return unavailable(err)
	}
	defer conn.Close()

	if _, err := conn.Do("PING"); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func (s *RedisStore) Create(ctx context.Context, rec room.Record) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return unavailable(err)
	}
	defer conn.Close()

	args, err := hashArgs(rec)
	if err != nil {
		return err
	}

	if s.ttl > 0 {
		if err := conn.Send("MULTI"); err != nil {
			return unavailable(err)
		}
		if err := conn.Send("HSET", args...); err != nil {
			return unavailable(err)
		}
		if err := conn.Send("PEXPIRE", rec.ID, s.ttl.Milliseconds()); err != nil {
			return unavailable(err)
		}
		if _, err := conn.Do("EXEC"); err != nil {
			return unavailable(err)
		}
		return nil
	}

	if _, err := conn.Do("HSET", args...); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (room.Record, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return room.Record{}, unavailable(err)
	}
	defer conn.Close()

	return load(conn, id)
}

// Update runs fn inside WATCH/MULTI/EXEC. When another writer touches the
// room between the read and EXEC the transaction is discarded and fn runs
// again on the fresh record.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(rec *room.Record) error) (room.Record, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return room.Record{}, unavailable(err)
	}
	defer conn.Close()

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return room.Record{}, err
		}

		if _, err := conn.Do("WATCH", id); err != nil {
			return room.Record{}, unavailable(err)
		}

		rec, err := load(conn, id)
		if err != nil {
			conn.Do("UNWATCH")
			return room.Record{}, err
		}
		current := rec.Clone()

		if err := fn(&rec); err != nil {
			conn.Do("UNWATCH")
			if errors.Is(err, room.ErrSkipWrite) {
				return current, nil
			}
			return room.Record{}, err
		}

		args, err := hashArgs(rec)
		if err != nil {
			conn.Do("UNWATCH")
			return room.Record{}, err
		}

		if err := conn.Send("MULTI"); err != nil {
			return room.Record{}, unavailable(err)
		}
		if err := conn.Send("HSET", args...); err != nil {
			return room.Record{}, unavailable(err)
		}
		if s.ttl > 0 {
			if err := conn.Send("PEXPIRE", id, s.ttl.Milliseconds()); err != nil {
				return room.Record{}, unavailable(err)
			}
		}

		_, err = redis.Values(conn.Do("EXEC"))
		if errors.Is(err, redis.ErrNil) {
			logger.Debug("store: room=%s update conflict, attempt %d", id, attempt)
			continue
		}
		if err != nil {
			return room.Record{}, unavailable(err)
		}
		return rec, nil
	}

	return room.Record{}, fmt.Errorf("%w: room %s: gave up after %d conflicting updates",
		room.ErrStoreUnavailable, id, maxUpdateAttempts)
}

func load(conn redis.Conn, id string) (room.Record, error) {
	fields, err := redis.StringMap(conn.Do("HGETALL", id))
	if err != nil {
		return room.Record{}, unavailable(err)
	}
	if len(fields) == 0 {
		return room.Record{}, fmt.Errorf("%w: %s", room.ErrRoomNotFound, id)
	}

	players := []string{}
	if raw := fields[fieldPlayers]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &players); err != nil {
			return room.Record{}, fmt.Errorf("room %s: corrupt players field: %w", id, err)
		}
	}

	return room.Record{
		ID:            id,
		Players:       players,
		CurrentDrawer: fields[fieldCurrentDrawer],
		Word:          fields[fieldWord],
		Status:        room.Status(fields[fieldGameStatus]),
	}, nil
}

func hashArgs(rec room.Record) (redis.Args, error) {
	players := rec.Players
	if players == nil {
		players = []string{}
	}
	encoded, err := json.Marshal(players)
	if err != nil {
		return nil, err
	}

	return redis.Args{}.Add(rec.ID).AddFlat(map[string]string{
		fieldPlayers:       string(encoded),
		fieldCurrentDrawer: rec.CurrentDrawer,
		fieldWord:          rec.Word,
		fieldGameStatus:    string(rec.Status),
	}), nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", room.ErrStoreUnavailable, err)
}
