package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/region/dirty"
)

// session is a heap over the configured region. File-backed regions get a
// dirty tracker that is flushed on close.
type session struct {
	heap    *alloc.Heap
	region  region.Provider
	tracker dirty.FlushableTracker
}

func openSession(c *config.Config, s alloc.Strategy) (*session, error) {
	p, err := c.OpenRegion()
	if err != nil {
		logger.Warn("open region failed", zap.String("region", c.Region), zap.Error(err))
		return nil, errors.Wrapf(err, "open %s region", c.Region)
	}

	hc := c.HeapConfig(logger.L)
	hc.Strategy = s

	sess := &session{region: p}
	if m, ok := p.(region.Mapping); ok && c.Region == config.RegionFile {
		sess.tracker = dirty.NewTracker(m)
		hc.Dirty = sess.tracker
	}

	existing := p.Len()
	h, err := alloc.New(p, hc)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	sess.heap = h
	logger.Info("opened heap",
		zap.String("region", c.Region),
		zap.Stringer("strategy", s),
		zap.Int("existingBytes", existing),
		zap.String("heap", h.ID().String()),
	)
	return sess, nil
}

func (s *session) Close(ctx context.Context) error {
	var flushErr error
	if s.tracker != nil {
		if flushErr = s.tracker.Flush(ctx, dirty.FlushAuto); flushErr != nil {
			logger.Warn("flush failed", zap.Error(flushErr))
		} else {
			logger.Debug("flushed region", zap.Int("bytes", s.region.Len()))
		}
	}
	return errors.CombineErrors(flushErr, s.region.Close())
}
