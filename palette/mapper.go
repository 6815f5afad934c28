// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package palette

import (
	"math"
	"slices"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/internal/parallel"
)

// spansPerWorker is the number of spans queued per worker in each pass.
const spansPerWorker = 4

// paintEach colors field in parallel with color(v) for every escaped point.
func paintEach(o options, field []int32, color func(v int) Color) []Color {
	out := make([]Color, len(field))
	if len(field) == 0 {
		return out
	}
	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()

	parallel.For(pool, len(field), pool.Workers()*spansPerWorker, func(_ int, s parallel.Span) {
		for k := s.Start; k < s.End; k++ {
			if v := field[k]; v == escape.NotEscaped {
				out[k] = Black
			} else {
				out[k] = color(int(v))
			}
		}
	})
	return out
}

type cyclicMapper struct {
	kind Kind
	ramp ramp
	opts options
}

func (m *cyclicMapper) Kind() Kind { return m.kind }

func (m *cyclicMapper) Paint(field []int32) []Color {
	return paintEach(m.opts, field, m.ramp.at)
}

type exponentialMapper struct {
	ramp     ramp
	maxIter  int
	exponent float64
	opts     options
}

func (m *exponentialMapper) Kind() Kind { return Exponential }

func (m *exponentialMapper) Paint(field []int32) []Color {
	length := m.ramp.length
	return paintEach(m.opts, field, func(v int) Color {
		s := math.Pow(float64(v)/float64(m.maxIter), m.exponent)
		scaled := int(s * float64(length))
		return m.ramp.at(min(max(scaled, 0), length-1))
	})
}

type histogramMapper struct {
	ramp    ramp
	maxIter int
	scale   float64
	opts    options
}

func (m *histogramMapper) Kind() Kind { return Histogram }

// bucket returns the histogram bucket of v. Points that never escaped, and
// steps beyond the budget, share the last bucket.
func (m *histogramMapper) bucket(v int32) int {
	if v < 0 || int(v) > m.maxIter {
		return m.maxIter
	}
	return int(v)
}

// Paint colors each escaped point by the share of points that escaped in
// fewer steps. The shares are counted before any point is colored.
func (m *histogramMapper) Paint(field []int32) []Color {
	n := len(field)
	if n == 0 {
		return []Color{}
	}
	pool := parallel.NewWorkerPool(m.opts.workers)
	defer pool.Close()
	parts := pool.Workers() * spansPerWorker

	var below func(b int) int
	if m.maxIter >= n {
		below = m.sortedCounts(field)
	} else {
		below = m.bucketCounts(pool, parts, field)
	}

	length := float64(m.ramp.length)
	out := make([]Color, n)
	parallel.For(pool, n, parts, func(_ int, s parallel.Span) {
		for k := s.Start; k < s.End; k++ {
			v := field[k]
			if v == escape.NotEscaped {
				out[k] = Black
				continue
			}
			hue := float64(below(m.bucket(v))) / float64(n)
			out[k] = m.ramp.at(int(hue * length * m.scale))
		}
	})
	return out
}

// bucketCounts builds a dense histogram of field and returns a lookup of
// the number of points in buckets below b. Each counting span gets its own
// histogram, so the spans are capped to keep the histograms together no
// larger than the field.
func (m *histogramMapper) bucketCounts(pool *parallel.WorkerPool, parts int, field []int32) func(b int) int {
	n := len(field)
	buckets := m.maxIter + 1
	parts = min(parts, max(1, n/buckets))

	locals := make([][]int, parts)
	parallel.For(pool, n, parts, func(idx int, s parallel.Span) {
		hist := make([]int, buckets)
		for k := s.Start; k < s.End; k++ {
			hist[m.bucket(field[k])]++
		}
		locals[idx] = hist
	})

	hist := make([]int, buckets)
	for _, local := range locals {
		for b, c := range local {
			hist[b] += c
		}
	}

	// cumulative[b] is the number of points in buckets below b.
	cumulative := make([]int, buckets)
	for b := 1; b < buckets; b++ {
		cumulative[b] = cumulative[b-1] + hist[b-1]
	}
	m.opts.debug("palette: histogram",
		"points", n,
		"buckets", buckets,
		"in_set", hist[m.maxIter])
	return func(b int) int { return cumulative[b] }
}

// sortedCounts serves budgets at least as large as the field. The escaped
// buckets are sorted and the count below b is found by binary search, so
// memory follows the field size instead of the budget.
func (m *histogramMapper) sortedCounts(field []int32) func(b int) int {
	sorted := make([]int, 0, len(field))
	for _, v := range field {
		if b := m.bucket(v); b < m.maxIter {
			sorted = append(sorted, b)
		}
	}
	slices.Sort(sorted)
	m.opts.debug("palette: histogram",
		"points", len(field),
		"escaped", len(sorted),
		"in_set", len(field)-len(sorted))
	return func(b int) int {
		i, _ := slices.BinarySearch(sorted, b)
		return i
	}
}
