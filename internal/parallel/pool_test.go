// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, got, want)
		}
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestWorkerPool_ExecuteAll_UnevenCost(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			if i%4 == 0 {
				time.Sleep(5 * time.Millisecond)
			}
			counter.Add(1)
		}
	}
	pool.ExecuteAll(work)

	if counter.Load() != 16 {
		t.Errorf("counter = %d, want 16", counter.Load())
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after Close")
	}
}

func TestWorkerPool_ExecuteAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var ran atomic.Bool
	pool.ExecuteAll([]func(){func() { ran.Store(true) }})
	if ran.Load() {
		t.Error("work ran on a closed pool")
	}
}

// =============================================================================
// Span Tests
// =============================================================================

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		parts int
		want  []Span
	}{
		{"empty", 0, 4, nil},
		{"even", 8, 4, []Span{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"remainder goes first", 10, 4, []Span{{0, 3}, {3, 6}, {6, 8}, {8, 10}}},
		{"more parts than items", 3, 8, []Span{{0, 1}, {1, 2}, {2, 3}}},
		{"zero parts", 5, 0, []Span{{0, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.n, tt.parts)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitCoversRange(t *testing.T) {
	for n := 1; n < 50; n++ {
		for parts := 1; parts < 12; parts++ {
			next := 0
			for _, s := range Split(n, parts) {
				if s.Start != next || s.Len() <= 0 {
					t.Fatalf("Split(%d, %d): span %v does not continue at %d", n, parts, s, next)
				}
				next = s.End
			}
			if next != n {
				t.Fatalf("Split(%d, %d) ends at %d", n, parts, next)
			}
		}
	}
}

func TestSplitNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Split(-1, 1) did not panic")
		}
	}()
	Split(-1, 1)
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		n, chunk  int
		wantSpans int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{5, 10, 1},
		{5, 0, 1},
	}
	for _, tt := range tests {
		spans := SplitChunks(tt.n, tt.chunk)
		if len(spans) != tt.wantSpans {
			t.Errorf("SplitChunks(%d, %d) gave %d spans, want %d", tt.n, tt.chunk, len(spans), tt.wantSpans)
		}
		for _, s := range spans {
			if tt.chunk > 0 && s.Len() > tt.chunk {
				t.Errorf("SplitChunks(%d, %d): span %v longer than chunk", tt.n, tt.chunk, s)
			}
		}
	}
}

func TestFor(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	out := make([]int, 1000)
	var calls atomic.Int64
	For(pool, len(out), 7, func(idx int, s Span) {
		calls.Add(1)
		for k := s.Start; k < s.End; k++ {
			out[k] = k * 2
		}
	})

	if calls.Load() != 7 {
		t.Errorf("calls = %d, want 7", calls.Load())
	}
	for k, v := range out {
		if v != k*2 {
			t.Fatalf("out[%d] = %d, want %d", k, v, k*2)
		}
	}
}

func BenchmarkWorkerPool_For(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	out := make([]int, 1<<16)
	b.ReportAllocs()
	for b.Loop() {
		For(pool, len(out), pool.Workers()*4, func(_ int, s Span) {
			for k := s.Start; k < s.End; k++ {
				out[k]++
			}
		})
	}
}
