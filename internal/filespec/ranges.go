package filespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var rangePair = regexp.MustCompile(`^(\d+)[-:](\d+)$`)

// ParseRanges parses a comma-separated list of "<from>-<to>" or
// "<from>:<to>" pairs. Ranges need not be sorted or disjoint.
func ParseRanges(text string) ([]Range, error) {
	segments := strings.Split(text, ",")
	ranges := make([]Range, 0, len(segments))
	for _, seg := range segments {
		m := rangePair.FindStringSubmatch(seg)
		if m == nil {
			return nil, &FormatError{Segment: seg, Reason: "expected <from>-<to> or <from>:<to>"}
		}
		from, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &FormatError{Segment: seg, Reason: "line number out of range"}
		}
		to, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, &FormatError{Segment: seg, Reason: "line number out of range"}
		}
		if from < 1 {
			return nil, &RangeError{Segment: seg, Reason: fmt.Sprintf("start line must be at least 1, got %d", from)}
		}
		if to < from {
			return nil, &RangeError{Segment: seg, Reason: fmt.Sprintf("end line %d is before start line %d", to, from)}
		}
		ranges = append(ranges, Range{From: from, To: to})
	}
	return ranges, nil
}

// FormatError reports a selector that does not match the range or diff syntax.
type FormatError struct {
	Segment string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid range format %q: %s", e.Segment, e.Reason)
}

// RangeError reports a well-formed range with invalid bounds.
type RangeError struct {
	Segment string
	Reason  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Segment, e.Reason)
}
