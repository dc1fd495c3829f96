package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

type SQLStore struct{ db *sql.DB }

func NewSQL(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Name() string { return "sql" }

func (s *SQLStore) Save(ctx context.Context, owner string, snap records.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (owner, data, updated_at) VALUES ($1,$2,$3)
		 ON CONFLICT (owner) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		owner, string(b), time.Now().Unix())
	return errors.Wrapf(err, "save snapshot of %s", owner)
}

func (s *SQLStore) Load(ctx context.Context, owner string) (records.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE owner = $1`, owner).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return records.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return records.Snapshot{}, errors.Wrapf(err, "load snapshot of %s", owner)
	}
	return decode([]byte(data))
}
