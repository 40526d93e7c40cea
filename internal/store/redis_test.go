package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshamg567/sketchy/backend/internal/room"
	"github.com/sakshamg567/sketchy/backend/logger"
)

func init() {
	logger.EnableLogging(false)
}

func setupRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(NewPool(Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_CreateLayout(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, room.Record{ID: "room_abc123", Players: []string{}, Status: room.StatusWaiting}))

	keys, err := mr.HKeys("room_abc123")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"players", "currentDrawer", "word", "gameStatus"}, keys)
	assert.Equal(t, "[]", mr.HGet("room_abc123", "players"))
	assert.Equal(t, "waiting", mr.HGet("room_abc123", "gameStatus"))
	assert.Equal(t, "", mr.HGet("room_abc123", "word"))
	assert.Equal(t, time.Duration(0), mr.TTL("room_abc123"))
}

func TestRedisStore_Get(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()
	mr.HSet("room_abc123",
		"players", `["Alice","Bob"]`,
		"currentDrawer", "Alice",
		"word", "rocket",
		"gameStatus", "in-progress",
	)

	rec, err := s.Get(ctx, "room_abc123")
	require.NoError(t, err)
	assert.Equal(t, room.Record{
		ID:            "room_abc123",
		Players:       []string{"Alice", "Bob"},
		CurrentDrawer: "Alice",
		Word:          "rocket",
		Status:        room.StatusInProgress,
	}, rec)

	_, err = s.Get(ctx, "room_missing")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestRedisStore_GetCorruptPlayers(t *testing.T) {
	s, mr := setupRedis(t, 0)
	mr.HSet("room_bad", "players", "not json", "gameStatus", "waiting")

	_, err := s.Get(context.Background(), "room_bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, room.ErrRoomNotFound)
}

func TestRedisStore_Update(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, room.Record{ID: "room_abc123", Players: []string{}, Status: room.StatusWaiting}))

	rec, err := s.Update(ctx, "room_abc123", func(rec *room.Record) error {
		rec.Players = append(rec.Players, "Alice")
		rec.CurrentDrawer = "Alice"
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, rec.Players)
	assert.Equal(t, `["Alice"]`, mr.HGet("room_abc123", "players"))
	assert.Equal(t, "Alice", mr.HGet("room_abc123", "currentDrawer"))
}

func TestRedisStore_UpdateSkipWrite(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, room.Record{ID: "room_abc123", Players: []string{"Alice"}, Status: room.StatusWaiting}))

	rec, err := s.Update(ctx, "room_abc123", func(rec *room.Record) error {
		rec.Players = append(rec.Players, "Bob")
		return room.ErrSkipWrite
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, rec.Players)
	assert.Equal(t, `["Alice"]`, mr.HGet("room_abc123", "players"))
}

func TestRedisStore_UpdateMissingRoom(t *testing.T) {
	s, mr := setupRedis(t, 0)

	_, err := s.Update(context.Background(), "room_missing", func(*room.Record) error { return nil })

	assert.ErrorIs(t, err, room.ErrRoomNotFound)
	assert.False(t, mr.Exists("room_missing"))
}

func TestRedisStore_UpdateRetriesOnConflict(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, room.Record{ID: "room_abc123", Players: []string{}, Status: room.StatusWaiting}))

	calls := 0
	rec, err := s.Update(ctx, "room_abc123", func(rec *room.Record) error {
		calls++
		if calls == 1 {
			// another writer sneaks in between WATCH and EXEC
			other := s.pool.Get()
			_, err := other.Do("HSET", "room_abc123", "players", `["Mallory"]`)
			other.Close()
			require.NoError(t, err)
		}
		rec.Players = append(rec.Players, "Alice")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"Mallory", "Alice"}, rec.Players)
	assert.Equal(t, `["Mallory","Alice"]`, mr.HGet("room_abc123", "players"))
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := setupRedis(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, room.Record{ID: "room_abc123", Players: []string{}, Status: room.StatusWaiting}))
	assert.Equal(t, time.Hour, mr.TTL("room_abc123"))

	mr.FastForward(30 * time.Minute)
	_, err := s.Update(ctx, "room_abc123", func(rec *room.Record) error {
		rec.Players = append(rec.Players, "Alice")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("room_abc123"), "writes refresh the expiry")

	mr.FastForward(2 * time.Hour)
	_, err = s.Get(ctx, "room_abc123")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := setupRedis(t, 0)
	ctx := context.Background()
	mr.Close()

	assert.ErrorIs(t, s.Ping(ctx), room.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Create(ctx, room.Record{ID: "room_abc123"}), room.ErrStoreUnavailable)
	_, err := s.Get(ctx, "room_abc123")
	assert.ErrorIs(t, err, room.ErrStoreUnavailable)
	_, err = s.Update(ctx, "room_abc123", func(*room.Record) error { return nil })
	assert.ErrorIs(t, err, room.ErrStoreUnavailable)
}

func TestRedisStore_ServiceScenario(t *testing.T) {
	s, mr := setupRedis(t, 0)
	svc := room.NewService(s, nil)
	ctx := context.Background()

	id, err := svc.CreateRoom(ctx)
	require.NoError(t, err)
	assert.Equal(t, "waiting", mr.HGet(id, "gameStatus"))

	_, err = svc.JoinRoom(ctx, id, "Alice")
	require.NoError(t, err)
	res, err := svc.JoinRoom(ctx, id, "Alice")
	require.NoError(t, err)
	assert.True(t, res.AlreadyJoined)
	assert.Equal(t, []string{"Alice"}, res.Players)

	_, err = svc.StartGame(ctx, id)
	assert.ErrorIs(t, err, room.ErrInsufficientPlayers)
	assert.Equal(t, "waiting", mr.HGet(id, "gameStatus"))

	_, err = svc.JoinRoom(ctx, id, "Bob")
	require.NoError(t, err)
	round, err := svc.StartGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", round.CurrentDrawer)
	assert.Equal(t, "in-progress", mr.HGet(id, "gameStatus"))
	assert.Equal(t, round.Word, mr.HGet(id, "word"))

	ok, err := svc.EvaluateGuess(ctx, id, "  ")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.EvaluateGuess(ctx, id, round.Word)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_ConcurrentJoinsDoNotLoseUpdates(t *testing.T) {
	s, _ := setupRedis(t, 0)
	svc := room.NewService(s, nil)
	ctx := context.Background()
	id, err := svc.CreateRoom(ctx)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.JoinRoom(ctx, id, fmt.Sprintf("player%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rec.Players, n)
	assert.Contains(t, rec.Players, rec.CurrentDrawer)
}
