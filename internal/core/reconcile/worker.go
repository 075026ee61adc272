package reconcile

import (
	"context"
	"time"

	"paygate/internal/metrics"
	"paygate/internal/provider"
	"paygate/internal/store/postgres"
	"paygate/internal/store/redisq"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Querier asks the gateway for a session's state.
type Querier interface {
	QueryState(ctx context.Context, q provider.StateQuery, posID string) (provider.StateResult, error)
}

// Watchlist is the set of sessions the application waits on.
type Watchlist interface {
	Due(ctx context.Context, now time.Time, limit int) ([]redisq.Entry, error)
	Reschedule(ctx context.Context, e redisq.Entry, at time.Time) error
	Forget(ctx context.Context, e redisq.Entry) error
}

// SnapshotStore records every state the worker observes.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s postgres.Snapshot) (int64, error)
}

// Results reported per checked session.
const (
	ResultReceived  = "received"
	ResultCancelled = "cancelled"
	ResultError     = "gateway_error"
	ResultPending   = "pending"
	ResultTransport = "transport_error"
	ResultInvalid   = "invalid"
)

type Options struct {
	PollEvery  time.Duration
	Batch      int
	RecheckIn  time.Duration
	MaxElapsed time.Duration
}

// Worker polls the gateway for watched sessions until they settle. The
// connector never retries; transport failures are retried here.
type Worker struct {
	querier    Querier
	watch      Watchlist
	store      SnapshotStore // optional
	pollEvery  time.Duration
	batch      int
	recheckIn  time.Duration
	now        func() time.Time
	newBackOff func() backoff.BackOff
}

func NewWorker(q Querier, watch Watchlist, store SnapshotStore, opts Options) *Worker {
	if opts.PollEvery <= 0 {
		opts.PollEvery = 5 * time.Second
	}
	if opts.Batch <= 0 {
		opts.Batch = 50
	}
	if opts.RecheckIn <= 0 {
		opts.RecheckIn = time.Minute
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = 30 * time.Second
	}
	maxElapsed := opts.MaxElapsed
	return &Worker{
		querier:   q,
		watch:     watch,
		store:     store,
		pollEvery: opts.PollEvery,
		batch:     opts.Batch,
		recheckIn: opts.RecheckIn,
		now:       time.Now,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = maxElapsed
			return b
		},
	}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("poll_every", w.pollEvery).
		Int("batch_size", w.batch).
		Msg("reconcile worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconcile worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	due, err := w.watch.Due(ctx, w.now(), w.batch)
	if err != nil {
		log.Error().Err(err).Msg("reconcile worker: fetch due sessions failed")
		return
	}
	for _, e := range due {
		if ctx.Err() != nil {
			return
		}
		result := w.handleOne(ctx, e)
		metrics.Reconciled(result)
	}
}

// handleOne checks one session and decides whether to keep watching it.
func (w *Worker) handleOne(ctx context.Context, e redisq.Entry) string {
	var st provider.StateResult
	op := func() error {
		var err error
		st, err = w.querier.QueryState(ctx, provider.StateQuery{SessionID: e.SessionID}, e.PosID)
		if err != nil && !provider.IsKind(err, provider.KindTransport) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("session_id", e.SessionID).Dur("retry_in", wait).Msg("reconcile worker: gateway unavailable")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(w.newBackOff(), ctx), notify); err != nil {
		if provider.IsKind(err, provider.KindTransport) || ctx.Err() != nil {
			w.reschedule(ctx, e)
			return ResultTransport
		}
		log.Error().Err(err).Str("session_id", e.SessionID).Str("pos_id", e.PosID).Msg("reconcile worker: dropping session")
		w.forget(ctx, e)
		return ResultInvalid
	}

	if w.store != nil {
		if _, err := w.store.SaveSnapshot(ctx, postgres.SnapshotFrom(e.PosID, e.SessionID, st, w.now())); err != nil {
			log.Error().Err(err).Str("session_id", e.SessionID).Msg("reconcile worker: save snapshot failed")
		}
	}

	var result string
	switch {
	case st.IsError():
		result = ResultError
	case st.IsReceived():
		result = ResultReceived
	case st.IsCancelled():
		result = ResultCancelled
	default:
		w.reschedule(ctx, e)
		return ResultPending
	}

	log.Info().
		Str("session_id", e.SessionID).
		Str("order_id", st.OrderID()).
		Str("trans_status", st.TransStatus()).
		Str("result", result).
		Msg("reconcile worker: session settled")
	w.forget(ctx, e)
	return result
}

func (w *Worker) reschedule(ctx context.Context, e redisq.Entry) {
	if err := w.watch.Reschedule(ctx, e, w.now().Add(w.recheckIn)); err != nil {
		log.Error().Err(err).Str("session_id", e.SessionID).Msg("reconcile worker: reschedule failed")
	}
}

func (w *Worker) forget(ctx context.Context, e redisq.Entry) {
	if err := w.watch.Forget(ctx, e); err != nil {
		log.Error().Err(err).Str("session_id", e.SessionID).Msg("reconcile worker: forget failed")
	}
}
