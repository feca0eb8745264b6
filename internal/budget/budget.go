// Package budget tracks the cumulative byte size of an output document
// against a fixed hard limit and two warning thresholds.
package budget

import "fmt"

const (
	// HardLimit is the size at which processing stops.
	HardLimit int64 = 125 * 1024
	// VeryCloseThreshold triggers the "very close" warning.
	VeryCloseThreshold int64 = 115 * 1024
	// ApproachingThreshold triggers the "approaching" warning.
	ApproachingThreshold int64 = 100 * 1024
)

// Level classifies a running total.
type Level int

const (
	OK Level = iota
	Approaching
	VeryClose
	Exceeded
)

func (l Level) String() string {
	switch l {
	case Approaching:
		return "approaching"
	case VeryClose:
		return "very close"
	case Exceeded:
		return "exceeded"
	default:
		return "ok"
	}
}

// Classify returns the highest threshold total has reached.
func Classify(total int64) Level {
	switch {
	case total >= HardLimit:
		return Exceeded
	case total >= VeryCloseThreshold:
		return VeryClose
	case total >= ApproachingThreshold:
		return Approaching
	default:
		return OK
	}
}

// Percent returns total as a percentage of HardLimit.
func Percent(total int64) float64 {
	return float64(total) * 100 / float64(HardLimit)
}

// Accountant holds the running total for one invocation. It only grows.
type Accountant struct {
	total int64
}

// New returns an Accountant seeded with the artifact's existing size.
func New(initial int64) *Accountant {
	return &Accountant{total: max(initial, 0)}
}

// Total returns the running byte count.
func (a *Accountant) Total() int64 {
	return a.total
}

// Add records one unit of content, measured in encoded bytes rather than
// characters, and classifies the new total.
func (a *Accountant) Add(unit string) Level {
	a.total += int64(len(unit))
	return Classify(a.total)
}

// SizeLimitError reports that the output reached the hard limit.
type SizeLimitError struct {
	Total int64
	Limit int64
	Unit  int // 1-based index of the unit that crossed the limit
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("size limit exceeded: output is %d bytes, limit is %d bytes (stopped after unit %d)", e.Total, e.Limit, e.Unit)
}
