// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package parallel provides the data-parallel execution infrastructure shared
// by the escape-time dispatcher and the palette mappers.
//
// Work over an index range [0, n) is cut into contiguous Spans with Split and
// each Span becomes one work item for a WorkerPool. Spans never overlap, so a
// work item may write its part of a shared output slice without locking.
package parallel

import "fmt"

// Span is the half-open index range [Start, End).
type Span struct {
	Start, End int
}

// Len returns the number of indices in s.
func (s Span) Len() int {
	return s.End - s.Start
}

// Split cuts [0, n) into at most parts contiguous, non-empty spans whose
// lengths differ by at most one. It returns nil when n is 0.
// Split panics if n is negative.
func Split(n, parts int) []Span {
	if n < 0 {
		panic(fmt.Sprintf("parallel: negative length %d", n))
	}
	if n == 0 {
		return nil
	}
	parts = max(1, min(parts, n))

	spans := make([]Span, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := range spans {
		size := base
		if i < extra {
			size++
		}
		spans[i] = Span{Start: start, End: start + size}
		start += size
	}
	return spans
}

// SplitChunks cuts [0, n) into balanced spans of at most chunk indices.
// A chunk of 0 or less yields a single span.
func SplitChunks(n, chunk int) []Span {
	if chunk <= 0 || chunk >= n {
		return Split(n, 1)
	}
	return Split(n, (n+chunk-1)/chunk)
}

// For runs fn over Split(n, parts) on pool and waits for every span.
// The span index is passed alongside the span so callers can keep
// per-span state without synchronization.
func For(pool *WorkerPool, n, parts int, fn func(idx int, s Span)) {
	spans := Split(n, parts)
	work := make([]func(), len(spans))
	for i, s := range spans {
		work[i] = func() { fn(i, s) }
	}
	pool.ExecuteAll(work)
}
