package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paygate/internal/provider"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no snapshot exists for a session.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one state query result as recorded by the application.
type Snapshot struct {
	ID          int64              `json:"id"`
	PosID       string             `json:"posId"`
	SessionID   string             `json:"sessionId"`
	Status      string             `json:"status"`
	TransStatus string             `json:"transStatus"`
	TransID     string             `json:"transId"`
	OrderID     string             `json:"orderId"`
	Amount      string             `json:"amount"`
	ErrorNr     string             `json:"errorNr"`
	Fields      map[string]*string `json:"fields"`
	TakenAt     time.Time          `json:"takenAt"`
}

// SnapshotFrom flattens a state query result. sessionID is the queried
// session; the gateway's echo is kept in Fields.
func SnapshotFrom(posID, sessionID string, st provider.StateResult, at time.Time) Snapshot {
	fields := st.Fields()
	get := func(key string) string {
		if v := fields[key]; v != nil {
			return *v
		}
		return ""
	}
	return Snapshot{
		PosID:       posID,
		SessionID:   sessionID,
		Status:      st.Status(),
		TransStatus: st.TransStatus(),
		TransID:     get("trans_id"),
		OrderID:     st.OrderID(),
		Amount:      get("trans_amount"),
		ErrorNr:     get("error_nr"),
		Fields:      fields,
		TakenAt:     at,
	}
}

// SaveSnapshot appends a snapshot and returns its id.
func (r *Repo) SaveSnapshot(ctx context.Context, s Snapshot) (int64, error) {
	raw, err := json.Marshal(s.Fields)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot fields: %w", err)
	}
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now()
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO payment_state_snapshots
			(pos_id, session_id, status, trans_status, trans_id, order_id, amount, error_nr, fields, taken_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id`,
		s.PosID, s.SessionID, s.Status, s.TransStatus, s.TransID, s.OrderID, s.Amount, s.ErrorNr, raw, s.TakenAt,
	).Scan(&id)
	return id, err
}

// LatestSnapshot returns the most recent snapshot of a session.
func (r *Repo) LatestSnapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	var (
		s   Snapshot
		raw []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, pos_id, session_id, status, trans_status, trans_id, order_id, amount, error_nr, fields, taken_at
		  FROM payment_state_snapshots
		 WHERE session_id = $1
		 ORDER BY taken_at DESC, id DESC
		 LIMIT 1`, sessionID,
	).Scan(&s.ID, &s.PosID, &s.SessionID, &s.Status, &s.TransStatus, &s.TransID, &s.OrderID, &s.Amount, &s.ErrorNr, &raw, &s.TakenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot fields: %w", err)
	}
	return &s, nil
}

// ListSnapshots returns a session's history, newest first.
func (r *Repo) ListSnapshots(ctx context.Context, sessionID string, limit int) ([]Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, pos_id, session_id, status, trans_status, trans_id, order_id, amount, error_nr, fields, taken_at
		  FROM payment_state_snapshots
		 WHERE session_id = $1
		 ORDER BY taken_at DESC, id DESC
		 LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			s   Snapshot
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.PosID, &s.SessionID, &s.Status, &s.TransStatus, &s.TransID, &s.OrderID, &s.Amount, &s.ErrorNr, &raw, &s.TakenAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &s.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot fields: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
