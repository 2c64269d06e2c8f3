package random

// Notes:
// - Every test seeds its own PCG source so failures reproduce.
// - Distribution quality is not tested; only bounds, counts and uniqueness.

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ---------------------------------------------------------------------------
// TestValidate
// ---------------------------------------------------------------------------

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"defaults", Request{Min: 1, Max: 100, Count: 1}, nil},
		{"single value", Request{Min: 5, Max: 5, Count: 3}, nil},
		{"max count", Request{Min: 1, Max: 10, Count: MaxCount}, nil},
		{"inverted range", Request{Min: 10, Max: 1, Count: 1}, ErrInvalidRange},
		{"zero count", Request{Min: 1, Max: 10, Count: 0}, ErrInvalidCount},
		{"count too large", Request{Min: 1, Max: 10, Count: MaxCount + 1}, ErrInvalidCount},
		{"unique exact fit", Request{Min: 1, Max: 10, Count: 10, Unique: true}, nil},
		{"unique too small", Request{Min: 1, Max: 10, Count: 11, Unique: true}, ErrRangeTooSmall},
		{"unique full int64 range", Request{Min: math.MinInt64, Max: math.MaxInt64, Count: 5, Unique: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerate
// ---------------------------------------------------------------------------

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
	}{
		{"small batch", Request{Min: 1, Max: 6, Count: 20}},
		{"negative range", Request{Min: -50, Max: -10, Count: 100}},
		{"single value", Request{Min: 7, Max: 7, Count: 4}},
		{"unique sparse", Request{Min: 1, Max: 1_000_000, Count: 500, Unique: true}},
		{"unique dense", Request{Min: 1, Max: 100, Count: 90, Unique: true}},
		{"unique whole range", Request{Min: 0, Max: 999, Count: 1000, Unique: true}},
		{"full int64 range", Request{Min: math.MinInt64, Max: math.MaxInt64, Count: 50, Unique: true}},
		{"sorted", Request{Min: 1, Max: 1000, Count: 200, Sort: true}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Generate(seeded(uint64(i)), tt.req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(got) != tt.req.Count {
				t.Fatalf("len(Generate()) = %d, want %d", len(got), tt.req.Count)
			}
			for _, v := range got {
				if v < tt.req.Min || v > tt.req.Max {
					t.Fatalf("Generate() value %d outside [%d, %d]", v, tt.req.Min, tt.req.Max)
				}
			}
			if tt.req.Unique {
				seen := make(map[int64]bool, len(got))
				for _, v := range got {
					if seen[v] {
						t.Fatalf("Generate() repeated %d in unique mode", v)
					}
					seen[v] = true
				}
			}
			if tt.req.Sort && !slices.IsSorted(got) {
				t.Errorf("Generate() = %v, want ascending", got)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	req := Request{Min: 1, Max: 100, Count: 10}
	a, err := Generate(seeded(42), req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(seeded(42), req)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestGenerate_UniqueWholeRangeIsPermutation(t *testing.T) {
	t.Parallel()

	got, err := Generate(seeded(7), Request{Min: 1, Max: 10, Count: 10, Unique: true, Sort: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if !slices.Equal(got, want) {
		t.Errorf("Generate() = %v, want %v", got, want)
	}
}

func TestGenerate_NilSource(t *testing.T) {
	t.Parallel()

	got, err := Generate(nil, Request{Min: 1, Max: 3, Count: 5})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len(Generate()) = %d, want 5", len(got))
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	t.Parallel()

	got, err := Generate(seeded(1), Request{Min: 1, Max: 2, Count: 3, Unique: true})
	if !errors.Is(err, ErrRangeTooSmall) {
		t.Errorf("Generate() error = %v, want ErrRangeTooSmall", err)
	}
	if got != nil {
		t.Errorf("Generate() = %v, want nil on error", got)
	}
}

// ---------------------------------------------------------------------------
// TestSummarize
// ---------------------------------------------------------------------------

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []int64
		want   Stats
	}{
		{"empty", nil, Stats{}},
		{"single", []int64{4}, Stats{Sum: 4, Mean: 4, Min: 4, Max: 4}},
		{"mixed", []int64{3, -1, 10, 0}, Stats{Sum: 12, Mean: 3, Min: -1, Max: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Summarize(tt.values); got != tt.want {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}
