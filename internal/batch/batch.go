package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fakeyudi/snipdoc/internal/budget"
	"github.com/fakeyudi/snipdoc/internal/extract"
	"github.com/fakeyudi/snipdoc/internal/filespec"
	"github.com/fakeyudi/snipdoc/internal/report"
	"github.com/fakeyudi/snipdoc/internal/sink"
)

var (
	// ErrNoFiles is returned for an empty plan.
	ErrNoFiles = errors.New("no file specs given")
	// ErrValidation is returned when the gate rejects the batch. Nothing
	// has been written when it is returned.
	ErrValidation = errors.New("validation failed")
	// ErrUnitFailures is returned when some units failed during extraction
	// after the gate passed. The other units were written.
	ErrUnitFailures = errors.New("some files could not be extracted")
)

// Result is the gate's verdict on one item. On success Spec is parsed and
// resolved, and is what extraction uses.
type Result struct {
	Item Item
	Spec filespec.FileSpec
	Err  error
}

// Valid reports whether the item passed validation.
func (r Result) Valid() bool { return r.Err == nil }

// Summary describes a completed run.
type Summary struct {
	RunID    string
	Units    int   // units written
	Added    int64 // bytes written by this run
	Total    int64 // artifact size after the run
	Failures int   // units that failed during extraction
	Halted   bool  // processing stopped at the hard limit
}

// Assembler drives validation and extraction for a plan.
type Assembler struct {
	Parser    filespec.Parser
	Extractor *extract.Extractor
	Sink      sink.Sink
	Reporter  *report.Reporter
	// TrackSize enables per-unit progress lines and the final summary.
	TrackSize bool
}

// Validate checks every item without touching the sink. ok is false if any
// item is invalid; all results are returned either way.
func (a *Assembler) Validate(plan Plan) (results []Result, ok bool) {
	ok = true
	results = make([]Result, len(plan))
	for i, it := range plan {
		res := Result{Item: it}
		spec, err := a.Parser.Parse(it.Token)
		if err == nil {
			err = a.Extractor.Check(&spec)
		}
		res.Spec, res.Err = spec, err
		if err != nil {
			ok = false
		}
		results[i] = res
	}
	return results, ok
}

// Run validates plan and, if the whole batch is valid, appends each unit to
// the sink in order. A unit is an optional "### header" line, the file's
// block, and a blank-line separator.
//
// Gate failures write nothing. Extraction failures after the gate are
// reported and skipped. Reaching budget.HardLimit stops processing after
// the unit that reached it; that unit stays written.
func (a *Assembler) Run(ctx context.Context, plan Plan) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	if len(plan) == 0 {
		return summary, ErrNoFiles
	}

	results, ok := a.Validate(plan)
	if !ok {
		failed := 0
		for _, res := range results {
			if !res.Valid() {
				failed++
				a.Reporter.Failure(res.Item.Label(), res.Err)
			}
		}
		return summary, fmt.Errorf("%w: %d of %d file specs invalid; no output written", ErrValidation, failed, len(plan))
	}

	initial, err := a.Sink.Size()
	if err != nil {
		return summary, err
	}
	acc := budget.New(initial)

	// A section header whose unit failed moves to the section's next
	// written unit.
	var carried Item

	for i, res := range results {
		if err := ctx.Err(); err != nil {
			return summary, errors.Join(err, a.Sink.Flush())
		}

		header := res.Item.Header
		if header == "" && carried.Section != 0 && carried.Section == res.Item.Section {
			header = carried.Header
		}

		block, err := a.Extractor.Extract(ctx, res.Spec)
		if err != nil {
			summary.Failures++
			label := res.Item.Label()
			switch {
			case res.Item.Section != 0:
				carried = Item{Section: res.Item.Section, Header: header}
			case header != "":
				label = fmt.Sprintf("%s (header %q not written)", label, header)
			}
			a.Reporter.Failure(label, err)
			continue
		}
		carried = Item{}

		unit := block + "\n"
		if header != "" {
			unit = "### " + header + "\n\n" + unit
		}
		if err := a.Sink.Append(unit); err != nil {
			return summary, errors.Join(err, a.Sink.Flush())
		}

		level := acc.Add(unit)
		summary.Units++
		summary.Added += int64(len(unit))
		summary.Total = acc.Total()

		if a.TrackSize {
			a.Reporter.Unit(report.Progress{
				Index: i + 1,
				Count: len(results),
				Name:  filepath.Base(res.Spec.Path),
				Added: int64(len(unit)),
				Total: acc.Total(),
			})
		}
		a.Reporter.Size(level, acc.Total())
		if level == budget.Exceeded {
			summary.Halted = true
			if err := a.Sink.Flush(); err != nil {
				return summary, err
			}
			if a.TrackSize {
				a.Reporter.Done(summary.RunID, summary.Units, summary.Added, summary.Total)
			}
			return summary, &budget.SizeLimitError{Total: acc.Total(), Limit: budget.HardLimit, Unit: i + 1}
		}
	}
	summary.Total = acc.Total()

	if err := a.Sink.Flush(); err != nil {
		return summary, err
	}
	if a.TrackSize {
		a.Reporter.Done(summary.RunID, summary.Units, summary.Added, summary.Total)
	}
	if summary.Failures > 0 {
		return summary, fmt.Errorf("%w: %d of %d failed", ErrUnitFailures, summary.Failures, len(plan))
	}
	return summary, nil
}
