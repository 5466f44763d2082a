package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AppendAssignsNextPosition(t *testing.T) {
	var a Arena

	pos, err := a.Append(10)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = a.Append(20)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	_, err = a.Append(10)
	assert.Error(t, err)
	assert.Equal(t, []int64{10, 20}, a.Positions())
}

func TestArena_RemoveClosesGap(t *testing.T) {
	a, err := New([]int64{1, 2, 3, 4})
	require.NoError(t, err)

	assert.True(t, a.Remove(2))
	assert.Equal(t, []int64{1, 3, 4}, a.Positions())

	assert.False(t, a.Remove(2))

	// Later tasks moved up, so removing one of them still closes its own gap.
	assert.True(t, a.Remove(4))
	assert.Equal(t, []int64{1, 3}, a.Positions())

	pos, err := a.Append(2)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestArena_Reorder(t *testing.T) {
	tests := []struct {
		name    string
		initial []int64
		order   []int64
		want    []int64
	}{
		{name: "full permutation", initial: []int64{1, 2, 3}, order: []int64{3, 1, 2}, want: []int64{3, 1, 2}},
		{name: "partial list keeps the rest in prior order", initial: []int64{1, 2, 3, 4}, order: []int64{4, 2}, want: []int64{4, 2, 1, 3}},
		{name: "untracked id is added", initial: []int64{1, 2}, order: []int64{5, 2}, want: []int64{5, 2, 1}},
		{name: "empty list is a no-op", initial: []int64{1, 2}, order: nil, want: []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.initial)
			require.NoError(t, err)

			require.NoError(t, a.Reorder(tt.order))
			assert.Equal(t, tt.want, a.Positions())

			// The index follows the new order: removing the head shifts the rest.
			if len(tt.want) > 1 {
				require.True(t, a.Remove(tt.want[0]))
				assert.Equal(t, tt.want[1:], a.Positions())
			}
		})
	}
}

func TestArena_ReorderRejectsDuplicates(t *testing.T) {
	a, err := New([]int64{1, 2, 3})
	require.NoError(t, err)

	assert.Error(t, a.Reorder([]int64{2, 2}))
	assert.Equal(t, []int64{1, 2, 3}, a.Positions())
}
