package redisq

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set holding watched sessions.
const DefaultKey = "paygate:watch"

// Entry is a watched payment session. PosID may be empty (default pos).
type Entry struct {
	SessionID string
	PosID     string
	DueAt     time.Time
}

// member encodes pos id and session id as "pos\x1fsession".
func (e Entry) member() string {
	return e.PosID + "\x1f" + e.SessionID
}

func parseMember(m string, score float64) Entry {
	pos, session, ok := strings.Cut(m, "\x1f")
	if !ok {
		session, pos = m, ""
	}
	return Entry{SessionID: session, PosID: pos, DueAt: time.Unix(int64(score), 0)}
}

// Watchlist keeps sessions the application waits on, scored by the unix
// time of their next check.
type Watchlist struct {
	rdb *redis.Client
	key string
}

func New(rdb *redis.Client, key string) *Watchlist {
	if key == "" {
		key = DefaultKey
	}
	return &Watchlist{rdb: rdb, key: key}
}

// Open connects to addr and pings it.
func Open(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Watch schedules a session for checking at dueAt. Watching an already
// watched session moves its next check.
func (w *Watchlist) Watch(ctx context.Context, e Entry) error {
	return w.rdb.ZAdd(ctx, w.key, redis.Z{Score: float64(e.DueAt.Unix()), Member: e.member()}).Err()
}

// Due returns up to limit sessions whose check time is not after now.
func (w *Watchlist) Due(ctx context.Context, now time.Time, limit int) ([]Entry, error) {
	zs, err := w.rdb.ZRangeByScoreWithScores(ctx, w.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		m, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, parseMember(m, z.Score))
	}
	return out, nil
}

// Reschedule moves a watched session's next check to at.
func (w *Watchlist) Reschedule(ctx context.Context, e Entry, at time.Time) error {
	e.DueAt = at
	return w.Watch(ctx, e)
}

// Forget stops watching a session.
func (w *Watchlist) Forget(ctx context.Context, e Entry) error {
	return w.rdb.ZRem(ctx, w.key, e.member()).Err()
}

// Len returns the number of watched sessions.
func (w *Watchlist) Len(ctx context.Context) (int64, error) {
	return w.rdb.ZCard(ctx, w.key).Result()
}
