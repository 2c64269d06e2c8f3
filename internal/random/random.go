// Package random draws batches of integers from a closed range.
package random

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Count limits.
const (
	MinCount = 1
	MaxCount = 1000
)

// Sentinel errors for request validation.
var (
	ErrInvalidRange  = errors.New("min must not be greater than max")
	ErrInvalidCount  = errors.New("count out of range")
	ErrRangeTooSmall = errors.New("range has fewer values than requested unique count")
)

// Request describes one batch.
type Request struct {
	Min    int64
	Max    int64
	Count  int
	Unique bool // no value repeats
	Sort   bool // ascending order
}

// Validate checks the request without drawing anything.
func (r Request) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, r.Min, r.Max)
	}
	if r.Count < MinCount || r.Count > MaxCount {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidCount, r.Count, MinCount, MaxCount)
	}
	if span := r.span(); r.Unique && span != 0 && span < uint64(r.Count) {
		return fmt.Errorf("%w: %d values in [%d, %d], %d requested",
			ErrRangeTooSmall, span, r.Min, r.Max, r.Count)
	}
	return nil
}

// span is the number of values in [Min, Max]. Zero stands for 2^64, the
// full int64 range.
func (r Request) span() uint64 {
	return uint64(r.Max) - uint64(r.Min) + 1
}

// Generate draws req.Count integers from [req.Min, req.Max] using src.
// A nil src uses the global generator.
func Generate(src *rand.Rand, req Request) ([]int64, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(globalSource{})
	}

	var out []int64
	switch span := req.span(); {
	case !req.Unique:
		out = make([]int64, req.Count)
		for i := range out {
			out[i] = draw(src, req.Min, span)
		}
	case span != 0 && uint64(req.Count) > span/2:
		out = shuffleDraw(src, req.Min, span, req.Count)
	default:
		out = rejectionDraw(src, req.Min, span, req.Count)
	}

	if req.Sort {
		slices.Sort(out)
	}
	return out, nil
}

func draw(src *rand.Rand, lo int64, span uint64) int64 {
	var off uint64
	if span == 0 {
		off = src.Uint64()
	} else {
		off = src.Uint64N(span)
	}
	return int64(uint64(lo) + off)
}

// rejectionDraw redraws duplicates; the caller guarantees the range is at
// least twice count, so the expected redraws stay low.
func rejectionDraw(src *rand.Rand, lo int64, span uint64, count int) []int64 {
	seen := make(map[int64]struct{}, count)
	out := make([]int64, 0, count)
	for len(out) < count {
		v := draw(src, lo, span)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// shuffleDraw runs count steps of a Fisher-Yates shuffle over the whole
// range. span is bounded by 2*MaxCount here.
func shuffleDraw(src *rand.Rand, lo int64, span uint64, count int) []int64 {
	pool := make([]int64, span)
	for i := range pool {
		pool[i] = int64(uint64(lo) + uint64(i))
	}
	for i := 0; i < count; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

// globalSource adapts the package-level generator to rand.Source.
type globalSource struct{}

func (globalSource) Uint64() uint64 { return rand.Uint64() }

// Stats summarizes a batch.
type Stats struct {
	Sum  float64
	Mean float64
	Min  int64
	Max  int64
}

// Summarize computes Stats for values. An empty slice yields zero Stats.
func Summarize(values []int64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	s := Stats{Min: values[0], Max: values[0]}
	for _, v := range values {
		s.Sum += float64(v)
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Mean = s.Sum / float64(len(values))
	return s
}
