package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"paygate/internal/store/postgres"
	"paygate/internal/store/redisq"

	"github.com/go-chi/chi/v5"
)

type Watcher interface {
	Watch(ctx context.Context, e redisq.Entry) error
}

type SnapshotReader interface {
	LatestSnapshot(ctx context.Context, sessionID string) (*postgres.Snapshot, error)
	ListSnapshots(ctx context.Context, sessionID string, limit int) ([]postgres.Snapshot, error)
}

const (
	defaultHistory = 20
	maxHistory     = 200
)

// Watch adds a session to the reconcile worker's watchlist, due now.
func Watch(wl Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := redisq.Entry{
			SessionID: chi.URLParam(r, "sessionID"),
			PosID:     r.URL.Query().Get("pos_id"),
			DueAt:     time.Now(),
		}
		if err := wl.Watch(r.Context(), e); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "watching", "sessionId": e.SessionID})
	}
}

// LatestSnapshot returns the last recorded state of a session.
func LatestSnapshot(store SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.LatestSnapshot(r.Context(), chi.URLParam(r, "sessionID"))
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot"})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// ListSnapshots returns a session's recorded states, newest first.
func ListSnapshots(store SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistory
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			limit = min(n, maxHistory)
		}

		out, err := store.ListSnapshots(r.Context(), chi.URLParam(r, "sessionID"), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if out == nil {
			out = []postgres.Snapshot{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
