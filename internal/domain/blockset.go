package domain

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// DayBlockSet is the set of manually-blocked intervals for one calendar
// date. The stored set is always normalized: pairwise non-overlapping and
// non-adjacent. Mutated only through the schedule service.
type DayBlockSet struct {
	Date      time.Time
	Intervals []timerange.Interval

	// Version guards concurrent edits of the same date: writes are
	// conditional on the version read.
	Version int64

	UpdatedAt time.Time
}

// IsNormalized reports whether the set satisfies the storage invariant.
func (s *DayBlockSet) IsNormalized() bool {
	merged := timerange.Merge(s.Intervals)
	if len(merged) != len(s.Intervals) {
		return false
	}
	for i := range merged {
		if merged[i] != s.Intervals[i] {
			return false
		}
	}
	return true
}

// BlockOperation is a mutation applied to a day's blocked set.
type BlockOperation string

const (
	BlockOpSet    BlockOperation = "set"    // replace the stored set
	BlockOpAdd    BlockOperation = "add"    // union with the stored set
	BlockOpRemove BlockOperation = "remove" // subtract from the stored set
)

// ParseBlockOperation validates a textual operation name.
func ParseBlockOperation(s string) (BlockOperation, bool) {
	switch BlockOperation(s) {
	case BlockOpSet, BlockOpAdd, BlockOpRemove:
		return BlockOperation(s), true
	default:
		return "", false
	}
}
