// Package report writes progress lines, size warnings, and error reports
// to the diagnostic stream (normally stderr).
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/snipdoc/internal/budget"
)

// Reporter formats diagnostics. Styling is applied only when Color is set,
// so output captured in tests or pipes stays plain.
type Reporter struct {
	w     io.Writer
	color bool

	progress lipgloss.Style
	dim      lipgloss.Style
	warn     lipgloss.Style
	severe   lipgloss.Style
	fail     lipgloss.Style
	ok       lipgloss.Style
}

// New returns a Reporter writing to w.
func New(w io.Writer, color bool) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:        w,
		color:    color,
		progress: r.NewStyle().Foreground(lipgloss.Color("39")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("240")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		severe:   r.NewStyle().Foreground(lipgloss.Color("202")).Bold(true),
		fail:     r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ok:       r.NewStyle().Foreground(lipgloss.Color("82")),
	}
}

func (r *Reporter) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Progress describes one written unit.
type Progress struct {
	Index int // 1-based
	Count int // units in the batch
	Name  string
	Added int64 // bytes this unit added
	Total int64 // running total after this unit
}

// Unit prints a progress line for one written unit.
func (r *Reporter) Unit(p Progress) {
	fmt.Fprintf(r.w, "%s %s: +%d bytes %s\n",
		r.style(r.progress, fmt.Sprintf("[%d/%d]", p.Index, p.Count)),
		p.Name,
		p.Added,
		r.style(r.dim, fmt.Sprintf("(total %d bytes, %.1f%% of %d)", p.Total, budget.Percent(p.Total), budget.HardLimit)),
	)
}

// Size prints the warning for level, if any. OK prints nothing.
func (r *Reporter) Size(level budget.Level, total int64) {
	switch level {
	case budget.Approaching:
		fmt.Fprintf(r.w, "%s approaching size limit: %d of %d bytes (%.1f%%)\n",
			r.style(r.warn, "warning:"), total, budget.HardLimit, budget.Percent(total))
	case budget.VeryClose:
		fmt.Fprintf(r.w, "%s very close to size limit: %d of %d bytes (%.1f%%)\n",
			r.style(r.severe, "warning:"), total, budget.HardLimit, budget.Percent(total))
	case budget.Exceeded:
		fmt.Fprintf(r.w, "%s size limit reached: %d of %d bytes (%.1f%%); no further files will be processed\n",
			r.style(r.fail, "error:"), total, budget.HardLimit, budget.Percent(total))
	}
}

// Failure prints one error attributed to label (usually a file spec).
func (r *Reporter) Failure(label string, err error) {
	fmt.Fprintf(r.w, "%s %s: %v\n", r.style(r.fail, "error:"), label, err)
}

// Done prints the final summary line of a run.
func (r *Reporter) Done(runID string, units int, added, total int64) {
	fmt.Fprintf(r.w, "%s %d units, %d bytes added, total %d bytes (%.1f%% of limit)\n",
		r.style(r.ok, "run "+runID+":"), units, added, total, budget.Percent(total))
}
