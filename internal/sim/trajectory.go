package sim

import (
	"fmt"

	"github.com/san-kum/particles/internal/dynamo"
)

// Trajectory is an append-only record of positions, one entry per
// completed step for every particle. Entry i of every particle refers to
// the same simulated time.
type Trajectory struct {
	names     []string
	index     map[string]int
	initial   []dynamo.Vector
	positions [][]dynamo.Vector
}

// NewTrajectory creates an empty buffer. initial holds the positions
// before the first step; they are kept for rendering but are not entries.
func NewTrajectory(names []string, initial []dynamo.Vector, capacity int) *Trajectory {
	t := &Trajectory{
		names:     append([]string(nil), names...),
		index:     make(map[string]int, len(names)),
		initial:   make([]dynamo.Vector, len(names)),
		positions: make([][]dynamo.Vector, len(names)),
	}
	for i, name := range names {
		t.index[name] = i
		t.positions[i] = make([]dynamo.Vector, 0, capacity)
		if i < len(initial) {
			t.initial[i] = initial[i].Clone()
		}
	}
	return t
}

// Append records one step. positions must be in particle order.
func (t *Trajectory) Append(positions []dynamo.Vector) error {
	if len(positions) != len(t.names) {
		return fmt.Errorf("%w: got %d positions for %d particles",
			dynamo.ErrDimensionMismatch, len(positions), len(t.names))
	}
	for i, p := range positions {
		t.positions[i] = append(t.positions[i], p.Clone())
	}
	return nil
}

// Len is the number of recorded steps.
func (t *Trajectory) Len() int {
	if len(t.positions) == 0 {
		return 0
	}
	return len(t.positions[0])
}

func (t *Trajectory) NumParticles() int { return len(t.names) }

func (t *Trajectory) Names() []string { return append([]string(nil), t.names...) }

func (t *Trajectory) Dim() int {
	for _, v := range t.initial {
		if v != nil {
			return v.Dim()
		}
	}
	if t.Len() > 0 {
		return t.positions[0][0].Dim()
	}
	return 0
}

// Positions returns particle i's recorded positions. The slice must not
// be modified.
func (t *Trajectory) Positions(i int) []dynamo.Vector {
	return t.positions[i]
}

func (t *Trajectory) Initial(i int) dynamo.Vector {
	return t.initial[i]
}

func (t *Trajectory) ByName(name string) ([]dynamo.Vector, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.positions[i], true
}

// At returns every particle's position at entry step.
func (t *Trajectory) At(step int) []dynamo.Vector {
	out := make([]dynamo.Vector, len(t.names))
	for i := range t.positions {
		out[i] = t.positions[i][step]
	}
	return out
}

// Downsample keeps every stride-th entry plus the last one, for smoother
// playback of long runs.
func (t *Trajectory) Downsample(stride int) *Trajectory {
	idx := SampleIndices(t.Len(), stride)
	out := NewTrajectory(t.names, t.initial, len(idx))
	for _, step := range idx {
		_ = out.Append(t.At(step))
	}
	return out
}

// SampleIndices lists the entries Downsample keeps out of n.
func SampleIndices(n, stride int) []int {
	if stride <= 1 {
		stride = 1
	}
	idx := make([]int, 0, n/stride+1)
	for step := stride - 1; step < n; step += stride {
		idx = append(idx, step)
	}
	if n > 0 && (n%stride) != 0 {
		idx = append(idx, n-1)
	}
	return idx
}
