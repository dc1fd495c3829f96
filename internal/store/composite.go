package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// Composite saves to every provider and loads from the first one that has
// data for the owner. The first provider is the one reads hit first, usually a
// cache in front of the durable stores.
type Composite struct {
	providers []Provider
	log       logrus.FieldLogger
}

func NewComposite(log logrus.FieldLogger, providers ...Provider) *Composite {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Composite{providers: providers, log: log}
}

func (c *Composite) Name() string { return "composite" }

// Save writes the providers behind the first one concurrently and the first
// one only once all of them succeeded, so a failed save is never visible to
// Load.
func (c *Composite) Save(ctx context.Context, owner string, s records.Snapshot) error {
	if len(c.providers) == 0 {
		return nil
	}
	front, rest := c.providers[0], c.providers[1:]

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range rest {
		p := p
		g.Go(func() error {
			if err := p.Save(gctx, owner, s); err != nil {
				return errors.Wrap(err, p.Name())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Wrap(front.Save(ctx, owner, s), front.Name())
}

// Load tries providers in order. A provider that fails is logged and skipped;
// the first error is returned only when no provider produced a snapshot.
func (c *Composite) Load(ctx context.Context, owner string) (records.Snapshot, error) {
	var firstErr error
	for _, p := range c.providers {
		s, err := p.Load(ctx, owner)
		switch {
		case err == nil:
			return s, nil
		case errors.Is(err, ErrNotFound):
			continue
		}
		c.log.WithError(err).WithFields(logrus.Fields{"provider": p.Name(), "owner": owner}).Warn("snapshot load failed")
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return records.Snapshot{}, firstErr
	}
	return records.Snapshot{}, ErrNotFound
}
