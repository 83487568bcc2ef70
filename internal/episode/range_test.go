package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		spec string
		min  int
		max  int
		want []int
	}{
		{"mixed", "1,2,5-10", 1, 20, []int{1, 2, 5, 6, 7, 8, 9, 10}},
		{"single", "3", 1, 12, []int{3}},
		{"full range", "1-12", 1, 12, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"overlapping ranges collapse", "1-4,3-6", 1, 12, []int{1, 2, 3, 4, 5, 6}},
		{"duplicates removed", "2,2,2", 1, 12, []int{2}},
		{"unsorted input sorted", "9,1,5", 1, 12, []int{1, 5, 9}},
		{"degenerate range", "4-4", 1, 12, []int{4}},
		{"whitespace around tokens", " 1 , 3-4 ", 1, 12, []int{1, 3, 4}},
		{"bounds not starting at one", "13-15", 13, 24, []int{13, 14, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec, tt.min, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"reversed range", "5-3"},
		{"above max", "21"},
		{"below min", "0"},
		{"range above max", "18-22"},
		{"empty", ""},
		{"trailing comma", "1,2,"},
		{"letters", "abc"},
		{"negative", "-3"},
		{"open range", "3-"},
		{"double dash", "1--3"},
		{"one bad token poisons all", "1,2,99"},
		{"overflow", "99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec, 1, 20)
			require.ErrorIs(t, err, ErrInvalidRange)
			assert.Nil(t, got)
		})
	}
}

func TestParse_ResultWithinBoundsAndStrictlyIncreasing(t *testing.T) {
	specs := []string{"1-20", "20,1,10-12,11", "3,3,4-6,5-9", "7"}
	for _, spec := range specs {
		got, err := Parse(spec, 1, 20)
		require.NoError(t, err, spec)
		require.NotEmpty(t, got)
		for i, n := range got {
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, 20)
			if i > 0 {
				assert.Greater(t, n, got[i-1], "spec %q not strictly increasing", spec)
			}
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{nil, ""},
		{[]int{4}, "4"},
		{[]int{1, 2, 3, 5}, "1-3,5"},
		{[]int{1, 2, 5, 6, 7, 8, 9, 10}, "1-2,5-10"},
		{[]int{1, 3, 5}, "1,3,5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_RoundTripsThroughParse(t *testing.T) {
	eps, err := Parse("1,2,5-10,12", 1, 20)
	require.NoError(t, err)

	again, err := Parse(Format(eps), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, eps, again)
}

func TestBounds(t *testing.T) {
	assert.Equal(t, "1-12", Bounds{Min: 1, Max: 12}.String())
	assert.NoError(t, Bounds{Min: 1, Max: 12}.Validate())
	assert.NoError(t, Bounds{Min: 5, Max: 5}.Validate())
	assert.Error(t, Bounds{Min: 12, Max: 1}.Validate())
	assert.Error(t, Bounds{Min: 0, Max: 3}.Validate())
	assert.NoError(t, Bounds{Min: 1, Max: MaxEpisode}.Validate())
	assert.Error(t, Bounds{Min: 1, Max: 2000000000}.Validate())
}
