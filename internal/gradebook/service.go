package gradebook

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/grading"
	"github.com/mind-engage/mindengage-gradebook/internal/grid"
	"github.com/mind-engage/mindengage-gradebook/internal/metrics"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
	"github.com/mind-engage/mindengage-gradebook/internal/store"
	syncx "github.com/mind-engage/mindengage-gradebook/internal/sync"
)

// Service edits owners' snapshots. Every change is a load, a pure update of
// the snapshot and a save; changes are serialized per service.
type Service struct {
	store   store.Provider
	events  syncx.Log
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	policy  grading.Policy

	mu sync.Mutex
}

type Option func(*Service)

func WithEventLog(l syncx.Log) Option        { return func(s *Service) { s.events = l } }
func WithMetrics(m *metrics.Metrics) Option  { return func(s *Service) { s.metrics = m } }
func WithLogger(l logrus.FieldLogger) Option { return func(s *Service) { s.log = l } }
func WithPolicy(p grading.Policy) Option     { return func(s *Service) { s.policy = p } }

func NewService(p store.Provider, opts ...Option) *Service {
	s := &Service{
		store:  p,
		events: syncx.NewMemoryLog(),
		log:    logrus.StandardLogger(),
		policy: grading.NewPolicy(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the owner's snapshot. An owner without one gets an empty
// snapshot.
func (s *Service) Snapshot(ctx context.Context, owner string) (records.Snapshot, error) {
	snap, err := s.store.Load(ctx, owner)
	if errors.Is(err, store.ErrNotFound) {
		return records.Snapshot{}, nil
	}
	return snap, err
}

// Replace validates and stores a whole snapshot; the last write wins.
func (s *Service) Replace(ctx context.Context, owner string, snap records.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.Save(ctx, owner, snap)
	s.metrics.Saved(err)
	if err == nil {
		s.log.WithFields(logrus.Fields{"owner": owner, "groups": len(snap.Groups)}).Info("snapshot replaced")
	}
	return err
}

func (s *Service) Book(ctx context.Context, owner, groupID string) (*Book, error) {
	snap, err := s.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	return NewBook(snap, groupID, s.policy)
}

// update runs fn on the owner's current snapshot and saves the result.
func (s *Service) update(ctx context.Context, owner string, fn func(records.Snapshot) (records.Snapshot, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.Snapshot(ctx, owner)
	if err != nil {
		return err
	}
	next, err := fn(snap)
	if err != nil {
		return err
	}
	err = s.store.Save(ctx, owner, next)
	s.metrics.Saved(err)
	return errors.Wrap(err, "save snapshot")
}

// recorder writes cells into a snapshot and collects the matching events.
type recorder struct {
	owner, groupID string
	source         syncx.Source
	snap           records.Snapshot
	events         []syncx.Event
}

func (r *recorder) write(studentID string, col grading.ColumnKey, v *float64) {
	r.snap = r.snap.WithScore(r.groupID, studentID, col.String(), v)
	r.events = append(r.events, syncx.Event{
		ID:        uuid.NewString(),
		Owner:     r.owner,
		GroupID:   r.groupID,
		StudentID: studentID,
		Column:    col.String(),
		Value:     v,
		Source:    r.source,
		CreatedAt: time.Now().Unix(),
	})
}

// edit runs a grid operation against the group and persists what it wrote.
func (s *Service) edit(ctx context.Context, owner, groupID string, src syncx.Source, fn func(*Book, *recorder) error) error {
	var rec *recorder
	err := s.update(ctx, owner, func(snap records.Snapshot) (records.Snapshot, error) {
		b, err := NewBook(snap, groupID, s.policy)
		if err != nil {
			return snap, err
		}
		rec = &recorder{owner: owner, groupID: groupID, source: src, snap: snap}
		if err := fn(b, rec); err != nil {
			return snap, err
		}
		return rec.snap, nil
	})
	if err != nil {
		return err
	}
	s.metrics.Written(string(src), len(rec.events))
	if err := s.events.Append(ctx, rec.events...); err != nil {
		// the scores are already saved; a lost audit entry is not fatal
		s.log.WithError(err).WithField("owner", owner).Error("event log append failed")
	}
	return nil
}

// SetCell is a single-cell edit. Empty text clears the cell.
func (s *Service) SetCell(ctx context.Context, owner, groupID, studentID, column, text string) (*float64, error) {
	col, ok := grading.ParseColumnKey(column)
	if !ok {
		return nil, errors.Wrap(ErrUnknownColumn, column)
	}
	value := grid.NormalizeCell(text)
	err := s.edit(ctx, owner, groupID, syncx.SourceSingle, func(b *Book, rec *recorder) error {
		if !b.HasColumn(col) {
			return errors.Wrap(ErrUnknownColumn, column)
		}
		st, ok := b.Group().Student(studentID)
		if !ok {
			return errors.Wrap(records.ErrStudentNotFound, studentID)
		}
		if !b.Editable(st, col) {
			return errors.Wrap(ErrIneligible, column)
		}
		rec.write(studentID, col, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Cell is a grid coordinate on the wire.
type Cell struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
}

type FillRequest struct {
	View   string `json:"view"`
	Search string `json:"q"`
	Start  Cell   `json:"start"`
	End    Cell   `json:"end"`
	Value  string `json:"value"`
}

func orchestrator(b *Book, v View, search string, rec *recorder) grid.Orchestrator[grading.ColumnKey] {
	return grid.Orchestrator[grading.ColumnKey]{
		Rows:    b.RowIDs(v, search),
		Columns: b.Columns(v),
		Write:   rec.write,
	}
}

// Fill writes one value over the selected rectangle of a view and returns the
// number of cells written. A selection naming a column the view no longer has
// writes nothing.
func (s *Service) Fill(ctx context.Context, owner, groupID string, req FillRequest) (int, error) {
	v, err := ParseView(req.View)
	if err != nil {
		return 0, err
	}
	start, okA := grading.ParseColumnKey(req.Start.Column)
	end, okB := grading.ParseColumnKey(req.End.Column)

	n := 0
	err = s.edit(ctx, owner, groupID, syncx.SourceFill, func(b *Book, rec *recorder) error {
		if !okA || !okB {
			return nil
		}
		sel := grid.NewSelection(
			grid.Coord[grading.ColumnKey]{Row: req.Start.Row, Col: start},
			grid.Coord[grading.ColumnKey]{Row: req.End.Row, Col: end},
		)
		n = orchestrator(b, v, req.Search, rec).Fill(sel, req.Value)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"owner": owner, "group": groupID, "view": v, "written": n}).Info("bulk fill")
	return n, nil
}

type PasteRequest struct {
	View   string `json:"view"`
	Search string `json:"q"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Text   string `json:"text"`
}

type PasteResult struct {
	Written int  `json:"written"`
	Pasted  bool `json:"pasted"` // false when the text was applied as a single-cell edit
}

// Paste writes clipboard text down one column. Text with a single line is
// applied as an ordinary edit of the anchor cell.
func (s *Service) Paste(ctx context.Context, owner, groupID string, req PasteRequest) (PasteResult, error) {
	v, err := ParseView(req.View)
	if err != nil {
		return PasteResult{}, err
	}
	col, ok := grading.ParseColumnKey(req.Column)
	if !ok {
		return PasteResult{}, errors.Wrap(ErrUnknownColumn, req.Column)
	}
	lines := grid.SplitLines(req.Text)

	var res PasteResult
	err = s.edit(ctx, owner, groupID, syncx.SourcePaste, func(b *Book, rec *recorder) error {
		o := orchestrator(b, v, req.Search, rec)
		res.Written, res.Pasted = o.PasteLines(lines, req.Row, col)
		if res.Pasted || len(lines) == 0 {
			return nil
		}
		if req.Row < 0 || req.Row >= len(o.Rows) || !o.HasColumn(col) {
			return nil
		}
		st, _ := b.Group().Student(o.Rows[req.Row])
		if !b.Editable(st, col) {
			return errors.Wrap(ErrIneligible, req.Column)
		}
		rec.write(st.ID, col, grid.NormalizeCell(lines[0]))
		res.Written = 1
		return nil
	})
	if err != nil {
		return PasteResult{}, err
	}
	if res.Pasted {
		s.metrics.Skipped(len(lines) - res.Written)
	}
	s.log.WithFields(logrus.Fields{"owner": owner, "group": groupID, "lines": len(lines), "written": res.Written}).Info("paste")
	return res, nil
}

// SaveEvaluation inserts or replaces an evaluation. A missing id is generated.
func (s *Service) SaveEvaluation(ctx context.Context, owner, groupID string, ev records.Evaluation) (records.Evaluation, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if err := ev.Validate(); err != nil {
		return records.Evaluation{}, err
	}
	err := s.update(ctx, owner, func(snap records.Snapshot) (records.Snapshot, error) {
		g, err := snap.Group(groupID)
		if err != nil {
			return snap, err
		}
		if !g.Categories.Has(ev.Partial, ev.CategoryID) {
			return snap, records.NewValidationError(records.ErrInvalid, records.FieldError{
				Field: "typeId",
				Error: "category is not configured for this partial",
			})
		}
		return snap.SaveEvaluation(groupID, ev)
	})
	if err != nil {
		return records.Evaluation{}, err
	}
	return ev, nil
}

func (s *Service) DeleteEvaluation(ctx context.Context, owner, groupID, evalID string) error {
	return s.update(ctx, owner, func(snap records.Snapshot) (records.Snapshot, error) {
		if _, err := snap.Group(groupID); err != nil {
			return snap, err
		}
		return snap.DeleteEvaluation(groupID, evalID)
	})
}

func (s *Service) MoveEvaluation(ctx context.Context, owner, groupID, evalID string, dir records.Direction) error {
	if dir != records.Left && dir != records.Right {
		return records.NewValidationError(records.ErrInvalid, records.FieldError{Field: "direction", Error: "must be one of: left right"})
	}
	return s.update(ctx, owner, func(snap records.Snapshot) (records.Snapshot, error) {
		if _, err := snap.Group(groupID); err != nil {
			return snap, err
		}
		return snap.MoveEvaluation(groupID, evalID, dir)
	})
}

// SetAttendance records one attendance entry.
func (s *Service) SetAttendance(ctx context.Context, owner, groupID, studentID, date string, status records.AttendanceStatus) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return records.NewValidationError(records.ErrInvalid, records.FieldError{Field: "date", Error: "must be a YYYY-MM-DD date"})
	}
	known := false
	for _, st := range records.AllStatuses {
		known = known || st == status
	}
	if !known {
		return records.NewValidationError(records.ErrInvalid, records.FieldError{Field: "status", Error: "unknown attendance status"})
	}
	return s.update(ctx, owner, func(snap records.Snapshot) (records.Snapshot, error) {
		g, err := snap.Group(groupID)
		if err != nil {
			return snap, err
		}
		if _, ok := g.Student(studentID); !ok {
			return snap, errors.Wrap(records.ErrStudentNotFound, studentID)
		}
		return snap.WithAttendance(groupID, studentID, date, status), nil
	})
}

// Events lists the owner's most recent score writes.
func (s *Service) Events(ctx context.Context, owner string, limit int) ([]syncx.Event, error) {
	return s.events.List(ctx, owner, limit)
}
