package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RoomHold serializes booking writes for one room across API instances.
// Acquire returns a release func that must be called once the write is committed.
type RoomHold interface {
	Acquire(ctx context.Context, roomID uint) (func(), error)
}

// NoopRoomHold never blocks. Concurrent check-then-insert on the same room can still race.
type NoopRoomHold struct{}

func (NoopRoomHold) Acquire(context.Context, uint) (func(), error) {
	return func() {}, nil
}

var releaseHoldScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisRoomHold is a SET NX lock per room with a TTL so a crashed holder cannot block the room forever.
type RedisRoomHold struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisRoomHold(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisRoomHold {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisRoomHold{client: client, ttl: ttl, log: log}
}

func roomHoldKey(roomID uint) string {
	return fmt.Sprintf("hold:room:%d", roomID)
}

// Acquire fails with a Conflict when another request holds the room.
// When redis itself is unreachable the hold is skipped and logged.
func (h *RedisRoomHold) Acquire(ctx context.Context, roomID uint) (func(), error) {
	key := roomHoldKey(roomID)
	token := uuid.NewString()

	ok, err := h.client.SetNX(ctx, key, token, h.ttl).Result()
	if err != nil {
		h.log.Warn().Err(err).Uint("room_id", roomID).Msg("room hold unavailable, continuing without it")
		return func() {}, nil
	}
	if !ok {
		return nil, Conflictf("room %d is being booked by another request, retry shortly", roomID)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseHoldScript.Run(releaseCtx, h.client, []string{key}, token).Err(); err != nil {
			h.log.Warn().Err(err).Uint("room_id", roomID).Msg("failed to release room hold")
		}
	}, nil
}
