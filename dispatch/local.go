// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/internal/parallel"
)

// spansPerWorker is the default number of spans queued per worker. Points
// inside the set cost the whole budget, so more spans than workers lets
// the pool rebalance by stealing.
const spansPerWorker = 4

// Local evaluates points on a worker pool in this process.
//
// The points are cut into contiguous spans. Each span writes only its own
// part of the output, so no locking is needed. Cancelling the context stops
// spans that have not started; spans already running finish.
type Local struct {
	// Workers is the pool size. Zero or negative selects GOMAXPROCS.
	Workers int

	// Spans is the number of spans. Zero or negative selects four per
	// worker.
	Spans int

	// Logger receives span diagnostics. Nil disables logging.
	Logger *slog.Logger
}

var _ Dispatcher = Local{}

// Dispatch implements Dispatcher.
func (l Local) Dispatch(ctx context.Context, e escape.Evaluator, maxIter int) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dispatch: local: %w", err)
	}

	n := e.Len()
	out := make([]int32, n)
	if n == 0 {
		return out, nil
	}

	pool := parallel.NewWorkerPool(l.Workers)
	defer pool.Close()

	spans := l.Spans
	if spans <= 0 {
		spans = pool.Workers() * spansPerWorker
	}
	if l.Logger != nil {
		l.Logger.Debug("dispatch: local",
			"points", n,
			"workers", pool.Workers(),
			"spans", min(spans, n),
			"precision", e.Precision())
	}

	var skipped atomic.Bool
	parallel.For(pool, n, spans, func(_ int, s parallel.Span) {
		if ctx.Err() != nil {
			skipped.Store(true)
			return
		}
		escape.RunRange(e, maxIter, out, s.Start, s.End)
	})
	if skipped.Load() {
		return nil, fmt.Errorf("dispatch: local: %w", context.Cause(ctx))
	}
	return out, nil
}
