package budget

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		total int64
		want  Level
	}{
		{0, OK},
		{ApproachingThreshold - 1, OK},
		{ApproachingThreshold, Approaching},
		{VeryCloseThreshold - 1, Approaching},
		{VeryCloseThreshold, VeryClose},
		{HardLimit - 1, VeryClose},
		{HardLimit, Exceeded},
		{HardLimit * 3, Exceeded},
	}
	for _, tc := range cases {
		if got := Classify(tc.total); got != tc.want {
			t.Errorf("Classify(%d): want %v, got %v", tc.total, tc.want, got)
		}
	}
}

func TestAddCountsBytesNotRunes(t *testing.T) {
	a := New(0)
	a.Add("héllo 世界")
	if want := int64(len([]byte("héllo 世界"))); a.Total() != want {
		t.Errorf("want %d bytes, got %d", want, a.Total())
	}
}

func TestNewClampsNegativeSeed(t *testing.T) {
	if got := New(-5).Total(); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
}

// Running total after unit k is S + sum(b1..bk) and never decreases.
func TestRunningTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64Range(0, HardLimit).Draw(t, "seed")
		sizes := rapid.SliceOfN(rapid.IntRange(0, 8*1024), 1, 40).Draw(t, "sizes")

		a := New(seed)
		want := seed
		prev := a.Total()
		for i, n := range sizes {
			level := a.Add(strings.Repeat("x", n))
			want += int64(n)
			if a.Total() != want {
				t.Fatalf("unit %d: want total %d, got %d", i+1, want, a.Total())
			}
			if a.Total() < prev {
				t.Fatalf("unit %d: total decreased from %d to %d", i+1, prev, a.Total())
			}
			if level != Classify(want) {
				t.Fatalf("unit %d: Add returned %v, Classify says %v", i+1, level, Classify(want))
			}
			prev = a.Total()
		}
	})
}

func TestPercent(t *testing.T) {
	if got := Percent(HardLimit / 2); got != 50 {
		t.Errorf("want 50, got %v", got)
	}
}
