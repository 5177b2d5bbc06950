package timerange

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Interval {
	t.Helper()
	iv, err := Parse(s)
	require.NoError(t, err)
	return iv
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "09:00-10:30", want: "09:00-10:30"},
		{name: "legacy one-digit hour", input: "9:00-10:30", want: "09:00-10:30"},
		{name: "legacy spaces around dash", input: "09:00 - 10:30", want: "09:00-10:30"},
		{name: "end of day", input: "23:00-24:00", want: "23:00-24:00"},
		{name: "zero length", input: "10:00-10:00", wantErr: true},
		{name: "inverted", input: "11:00-10:00", wantErr: true},
		{name: "cross midnight", input: "23:00-01:00", wantErr: true},
		{name: "garbage", input: "morning", wantErr: true},
		{name: "bad minutes", input: "09:60-10:00", wantErr: true},
		{name: "past 24:00", input: "09:00-24:30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := Parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, iv.String())
		})
	}
}

func TestOverlaps_TouchingCounts(t *testing.T) {
	a := mustParse(t, "09:00-10:00")
	b := mustParse(t, "10:00-11:00")

	assert.True(t, Overlaps(a, b))
	assert.True(t, Overlaps(b, a))

	// But touching is not a real intersection.
	assert.False(t, StrictOverlaps(a, b))
	assert.False(t, StrictOverlaps(b, a))
}

func TestOverlaps_MethodFormsAgree(t *testing.T) {
	a := mustParse(t, "09:00-10:00")
	touching := mustParse(t, "10:00-11:00")
	crossing := mustParse(t, "09:30-10:30")

	assert.True(t, a.Overlaps(touching))
	assert.False(t, a.StrictOverlaps(touching))
	assert.True(t, a.StrictOverlaps(crossing))
	assert.False(t, a.StrictOverlaps(mustParse(t, "11:00-12:00")))
}

func TestMerge_TouchingPairCoalesces(t *testing.T) {
	merged := Merge([]Interval{
		mustParse(t, "09:00-10:00"),
		mustParse(t, "10:00-11:00"),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "09:00-11:00", merged[0].String())
}

func TestMerge_Normalizes(t *testing.T) {
	merged := Merge([]Interval{
		mustParse(t, "14:00-15:00"),
		mustParse(t, "09:00-10:30"),
		mustParse(t, "10:00-11:00"),
		mustParse(t, "14:30-14:45"),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "09:00-11:00", merged[0].String())
	assert.Equal(t, "14:00-15:00", merged[1].String())
}

func TestMerge_Idempotent(t *testing.T) {
	intervals := []Interval{
		mustParse(t, "08:00-09:00"),
		mustParse(t, "08:30-09:30"),
		mustParse(t, "12:00-13:00"),
		mustParse(t, "13:00-14:00"),
	}

	once := Merge(intervals)
	twice := Merge(once)
	assert.Equal(t, once, twice)
}

func TestMerge_PermutationInvariant(t *testing.T) {
	intervals := []Interval{
		mustParse(t, "08:00-09:00"),
		mustParse(t, "10:00-10:15"),
		mustParse(t, "08:45-09:30"),
		mustParse(t, "16:00-18:00"),
		mustParse(t, "09:30-10:00"),
	}

	want := Merge(intervals)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Interval, len(intervals))
		copy(shuffled, intervals)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Merge(shuffled))
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		remove   []string
		want     []string
	}{
		{
			name:     "middle split",
			existing: []string{"09:00-12:00"},
			remove:   []string{"10:00-11:00"},
			want:     []string{"09:00-10:00", "11:00-12:00"},
		},
		{
			name:     "exact match removes all",
			existing: []string{"09:00-12:00"},
			remove:   []string{"09:00-12:00"},
			want:     []string{},
		},
		{
			name:     "touching removal keeps interval",
			existing: []string{"09:00-10:00"},
			remove:   []string{"10:00-11:00"},
			want:     []string{"09:00-10:00"},
		},
		{
			name:     "boundary-aligned removal keeps remainder",
			existing: []string{"09:00-12:00"},
			remove:   []string{"09:00-10:00"},
			want:     []string{"10:00-12:00"},
		},
		{
			name:     "removal covering more than interval",
			existing: []string{"10:00-11:00"},
			remove:   []string{"09:00-12:00"},
			want:     []string{},
		},
		{
			name:     "multiple removals over multiple sources",
			existing: []string{"08:00-10:00", "14:00-16:00"},
			remove:   []string{"09:00-09:30", "15:30-17:00"},
			want:     []string{"08:00-09:00", "09:30-10:00", "14:00-15:30"},
		},
		{
			name:     "no intersection",
			existing: []string{"08:00-09:00"},
			remove:   []string{"12:00-13:00"},
			want:     []string{"08:00-09:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := make([]Interval, 0, len(tt.existing))
			for _, s := range tt.existing {
				existing = append(existing, mustParse(t, s))
			}
			remove := make([]Interval, 0, len(tt.remove))
			for _, s := range tt.remove {
				remove = append(remove, mustParse(t, s))
			}

			got := Subtract(existing, remove)
			gotStr := make([]string, 0, len(got))
			for _, iv := range got {
				gotStr = append(gotStr, iv.String())
			}
			assert.Equal(t, tt.want, gotStr)
		})
	}
}

// Subtracting a removal set and merging it back with the removed coverage
// must reconstruct the original merged set: no time lost, none duplicated.
func TestSubtract_MergeReconstruction(t *testing.T) {
	existing := []Interval{
		mustParse(t, "08:00-10:00"),
		mustParse(t, "12:00-14:00"),
	}
	remove := []Interval{
		mustParse(t, "09:00-09:30"),
		mustParse(t, "12:00-13:00"),
	}

	remaining := Subtract(existing, remove)

	// Coverage actually removed = existing minus remaining.
	removedCoverage := []Interval{
		mustParse(t, "09:00-09:30"),
		mustParse(t, "12:00-13:00"),
	}

	reconstructed := Merge(append(append([]Interval{}, remaining...), removedCoverage...))
	assert.Equal(t, Merge(existing), reconstructed)
}

func TestParseListFormatList(t *testing.T) {
	list, err := ParseList("09:00-10:00,12:00-13:30")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "09:00-10:00,12:00-13:30", FormatList(list))

	empty, err := ParseList("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, "", FormatList(empty))

	_, err = ParseList("09:00-10:00,bogus")
	assert.ErrorIs(t, err, ErrMalformedInterval)
}
