// Package timerange implements pure interval algebra over half-open
// time-of-day ranges within a single calendar day. Time is compared by
// minutes since midnight; cross-midnight intervals are rejected.
package timerange

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMalformedInterval is returned for input that cannot be decoded
	// into a well-formed interval.
	ErrMalformedInterval = errors.New("timerange: malformed interval")
)

// MinutesPerDay is the exclusive upper bound for interval endpoints.
// An end time of exactly 24:00 is allowed so the last hour of the day
// can be covered.
const MinutesPerDay = 24 * 60

// TimeOfDay is a moment within one day, in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay decodes "HH:MM". One-digit hours are tolerated
// ("9:00"), a legacy shape still present in stored data. "24:00" is
// accepted as an end-of-day bound.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedInterval, s)
	}

	hour, err := parseDigits(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedInterval, s)
	}
	minute, err := parseDigits(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedInterval, s)
	}

	if hour > 24 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrMalformedInterval, s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

func parseDigits(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// String formats the time in canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is an immutable half-open [start, end) time range within one
// day. The zero value is not a valid interval; construct via New or Parse.
type Interval struct {
	start TimeOfDay
	end   TimeOfDay
}

// New constructs an interval. Zero-length and inverted intervals are
// rejected, as are endpoints outside [00:00, 24:00].
func New(start, end TimeOfDay) (Interval, error) {
	if start < 0 || end > MinutesPerDay {
		return Interval{}, fmt.Errorf("%w: endpoints out of day bounds", ErrMalformedInterval)
	}
	if start >= end {
		return Interval{}, fmt.Errorf("%w: start %s is not before end %s", ErrMalformedInterval, start, end)
	}
	return Interval{start: start, end: end}, nil
}

// Parse decodes the canonical "HH:MM-HH:MM" form. Spaces around the dash
// and one-digit hours are tolerated; the decoded interval is always
// canonical. Cross-midnight text (end before start) is rejected rather
// than reinterpreted.
func Parse(text string) (Interval, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("%w: %q is not HH:MM-HH:MM", ErrMalformedInterval, text)
	}

	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return Interval{}, err
	}

	return New(start, end)
}

// Start returns the inclusive lower bound.
func (i Interval) Start() TimeOfDay { return i.start }

// End returns the exclusive upper bound.
func (i Interval) End() TimeOfDay { return i.end }

// String formats the interval in canonical "HH:MM-HH:MM" form.
func (i Interval) String() string {
	return i.start.String() + "-" + i.end.String()
}

// IsZero reports whether the interval is the (invalid) zero value.
func (i Interval) IsZero() bool {
	return i.start == 0 && i.end == 0
}

// Overlaps reports whether a and b overlap for merge purposes: real
// intersection or mere touching (a.End == b.Start) both count, so that
// back-to-back blocked intervals are never stored fragmented.
func Overlaps(a, b Interval) bool {
	return a.start <= b.end && b.start <= a.end
}

// StrictOverlaps reports whether a and b share at least one point of
// actual time. Touching intervals do not strictly overlap; this is the
// test used for conflict counting and subtraction.
func StrictOverlaps(a, b Interval) bool {
	return a.start < b.end && b.start < a.end
}

// Overlaps is the method form of Overlaps.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i, o)
}

// StrictOverlaps is the method form of StrictOverlaps.
func (i Interval) StrictOverlaps(o Interval) bool {
	return StrictOverlaps(i, o)
}

// Merge coalesces the input into a minimal sorted list of disjoint,
// non-adjacent intervals. Input order is irrelevant and the input slice
// is not modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	merged := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if Overlaps(*last, next) {
			if next.end > last.end {
				last.end = next.end
			}
			continue
		}
		merged = append(merged, next)
	}

	return merged
}

// Subtract removes every strictly-intersecting part of remove from each
// interval in existing, splitting around removals where needed. A removal
// that merely touches an interval leaves it intact, and an endpoint
// exactly matching a removal boundary never produces a zero-width
// remainder. Fragments keep the order of their source intervals.
func Subtract(existing, remove []Interval) []Interval {
	result := make([]Interval, 0, len(existing))

	for _, src := range existing {
		fragments := []Interval{src}

		for _, rm := range remove {
			next := fragments[:0:0]
			for _, frag := range fragments {
				if !StrictOverlaps(frag, rm) {
					next = append(next, frag)
					continue
				}
				if rm.start > frag.start {
					next = append(next, Interval{start: frag.start, end: rm.start})
				}
				if rm.end < frag.end {
					next = append(next, Interval{start: rm.end, end: frag.end})
				}
			}
			fragments = next
		}

		result = append(result, fragments...)
	}

	return result
}

// ParseList decodes a comma-joined list of intervals, the storage form of
// a day's blocked set. Empty input yields an empty list.
func ParseList(text string) ([]Interval, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Interval{}, nil
	}

	parts := strings.Split(text, ",")
	intervals := make([]Interval, 0, len(parts))
	for _, p := range parts {
		iv, err := Parse(p)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// FormatList encodes intervals into the comma-joined canonical storage
// form.
func FormatList(intervals []Interval) string {
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, ",")
}
