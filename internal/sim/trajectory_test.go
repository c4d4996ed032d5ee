package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/dynamo"
)

func filled(n int) *Trajectory {
	tr := NewTrajectory([]string{"a", "b"}, []dynamo.Vector{{0, 0}, {1, 1}}, n)
	for i := 1; i <= n; i++ {
		f := float64(i)
		_ = tr.Append([]dynamo.Vector{{f, 0}, {0, f}})
	}
	return tr
}

func TestTrajectoryAppend(t *testing.T) {
	tr := NewTrajectory([]string{"a", "b"}, nil, 0)
	assert.Equal(t, 0, tr.Len())

	pos := dynamo.Vector{1, 2}
	require.NoError(t, tr.Append([]dynamo.Vector{pos, {3, 4}}))
	pos[0] = 99
	assert.Equal(t, dynamo.Vector{1, 2}, tr.Positions(0)[0])

	err := tr.Append([]dynamo.Vector{{1, 2}})
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
	assert.Equal(t, 1, tr.Len())
}

func TestTrajectoryAccessors(t *testing.T) {
	tr := filled(3)

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 2, tr.NumParticles())
	assert.Equal(t, 2, tr.Dim())
	assert.Equal(t, []string{"a", "b"}, tr.Names())
	assert.Equal(t, dynamo.Vector{1, 1}, tr.Initial(1))
	assert.Equal(t, []dynamo.Vector{{2, 0}, {0, 2}}, tr.At(1))

	b, ok := tr.ByName("b")
	require.True(t, ok)
	assert.Equal(t, dynamo.Vector{0, 3}, b[2])

	_, ok = tr.ByName("missing")
	assert.False(t, ok)
}

func TestTrajectoryDownsample(t *testing.T) {
	tests := []struct {
		n, stride int
		want      []float64
	}{
		{5, 1, []float64{1, 2, 3, 4, 5}},
		{5, 2, []float64{2, 4, 5}},
		{6, 3, []float64{3, 6}},
		{2, 5, []float64{2}},
		{4, 0, []float64{1, 2, 3, 4}},
		{0, 2, nil},
	}

	for _, tt := range tests {
		ds := filled(tt.n).Downsample(tt.stride)
		var got []float64
		for _, p := range ds.Positions(0) {
			got = append(got, p[0])
		}
		assert.Equal(t, tt.want, got, "n=%d stride=%d", tt.n, tt.stride)
		assert.Equal(t, dynamo.Vector{0, 0}, ds.Initial(0))
	}
}

func TestSampleIndices(t *testing.T) {
	assert.Equal(t, []int{1, 3, 4}, SampleIndices(5, 2))
	assert.Equal(t, []int{0, 1, 2}, SampleIndices(3, -1))
	assert.Empty(t, SampleIndices(0, 3))
}
