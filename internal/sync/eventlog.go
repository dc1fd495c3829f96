package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Source tells which edit path produced a score write.
type Source string

const (
	SourceSingle Source = "single"
	SourceFill   Source = "fill"
	SourcePaste  Source = "paste"
)

const TypeScoreSet = "ScoreSet"

// Event is one audited score write.
type Event struct {
	Seq       int64    `json:"seq,omitempty"`
	ID        string   `json:"id"`
	Owner     string   `json:"owner"`
	GroupID   string   `json:"group_id"`
	StudentID string   `json:"student_id"`
	Column    string   `json:"column"`
	Value     *float64 `json:"value"`
	Source    Source   `json:"source"`
	CreatedAt int64    `json:"created_at"`
}

func (e Event) key() string { return e.GroupID + "/" + e.StudentID + "/" + e.Column }

// Log appends score events and lists them newest first.
type Log interface {
	Append(ctx context.Context, events ...Event) error
	List(ctx context.Context, owner string, limit int) ([]Event, error)
}

func stamp(e *Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Append writes all events in one transaction.
func (r *EventRepo) Append(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()
	for _, e := range events {
		stamp(&e)
		data, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, "encode event")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_log (id, owner, typ, key, data, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			e.ID, e.Owner, TypeScoreSet, e.key(), string(data), e.CreatedAt); err != nil {
			return errors.Wrap(err, "append event")
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (r *EventRepo) List(ctx context.Context, owner string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, data FROM event_log WHERE owner = $1 ORDER BY seq DESC LIMIT $2`, owner, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var (
			seq  int64
			data string
			e    Event
		)
		if err := rows.Scan(&seq, &data); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, errors.Wrap(err, "decode event")
		}
		e.Seq = seq
		out = append(out, e)
	}
	return out, rows.Err()
}

type memoryLog struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryLog() Log { return &memoryLog{} }

func (m *memoryLog) Append(_ context.Context, events ...Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		stamp(&e)
		e.Seq = int64(len(m.events) + 1)
		m.events = append(m.events, e)
	}
	return nil
}

func (m *memoryLog) List(_ context.Context, owner string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].Owner == owner {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}
