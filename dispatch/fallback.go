// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dispatch

import (
	"context"
	"log/slog"

	"github.com/gogpu/mandel/escape"
)

// Fallback runs Primary and, when it fails with a backend error or
// ErrUnsupportedPrecision, runs Secondary instead. Any other error from
// Primary is returned unchanged.
type Fallback struct {
	Primary   Dispatcher
	Secondary Dispatcher

	// Logger receives a warning for every fallback. Nil disables logging.
	Logger *slog.Logger
}

var _ Dispatcher = Fallback{}

// Dispatch implements Dispatcher.
func (f Fallback) Dispatch(ctx context.Context, e escape.Evaluator, maxIter int) ([]int32, error) {
	out, err := f.Primary.Dispatch(ctx, e, maxIter)
	if err == nil {
		return out, nil
	}
	if !IsBackendError(err) {
		return nil, err
	}
	if f.Logger != nil {
		f.Logger.Warn("dispatch: primary failed, falling back", "error", err)
	}
	return f.Secondary.Dispatch(ctx, e, maxIter)
}
