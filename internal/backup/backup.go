// Package backup exports snapshots as JSON blobs and reads them back.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
)

var ErrMalformed = errors.New("malformed backup")

// maxSize bounds an imported backup.
const maxSize = 32 << 20

type Service struct {
	blobs storage.BlobStore
	now   func() time.Time
}

func NewService(blobs storage.BlobStore) *Service {
	return &Service{blobs: blobs, now: time.Now}
}

func prefix(owner string) string { return "backups/" + owner + "/" }

// Key returns the blob key of a new backup taken at t.
func Key(owner string, t time.Time) string {
	return fmt.Sprintf("%sgradebook_backup_%s_%s.json", prefix(owner), t.Format("2006-01-02"), uuid.NewString())
}

// Export writes s as a new backup of owner and returns its key.
func (b *Service) Export(owner string, s records.Snapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode backup")
	}
	key, err := b.blobs.Put(Key(owner, b.now()), bytes.NewReader(data))
	return key, errors.Wrap(err, "store backup")
}

// List returns the keys of owner's backups, oldest first.
func (b *Service) List(owner string) ([]string, error) {
	return b.blobs.List(prefix(owner))
}

// Open reads one of owner's backups. Keys of other owners are not found.
func (b *Service) Open(owner, key string) (records.Snapshot, error) {
	if !strings.HasPrefix(key, prefix(owner)) {
		return records.Snapshot{}, errors.Wrap(storage.ErrNotFound, key)
	}
	rc, err := b.blobs.Get(key)
	if err != nil {
		return records.Snapshot{}, err
	}
	defer rc.Close()
	return Decode(rc)
}

// Decode parses a backup. The payload must be a JSON object carrying a
// "groups" array; the decoded snapshot must then pass validation.
func Decode(r io.Reader) (records.Snapshot, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return records.Snapshot{}, errors.Wrap(err, "read backup")
	}
	if len(data) > maxSize {
		return records.Snapshot{}, errors.Wrap(ErrMalformed, "too large")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return records.Snapshot{}, errors.Wrap(ErrMalformed, "not a JSON object")
	}
	var groups []json.RawMessage
	if raw, ok := top["groups"]; !ok || json.Unmarshal(raw, &groups) != nil || groups == nil {
		return records.Snapshot{}, errors.Wrap(ErrMalformed, `missing "groups" array`)
	}

	var s records.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return records.Snapshot{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if err := s.Validate(); err != nil {
		return records.Snapshot{}, err
	}
	return s, nil
}
