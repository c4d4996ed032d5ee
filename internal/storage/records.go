package storage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

// Coord is an optional coordinate; the z column is empty for planar runs.
type Coord struct {
	Value float64
	Valid bool
}

func (c Coord) MarshalCSV() (string, error) {
	if !c.Valid {
		return "", nil
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64), nil
}

func (c *Coord) UnmarshalCSV(s string) error {
	if s == "" {
		*c = Coord{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*c = Coord{Value: v, Valid: true}
	return nil
}

// TrajectoryRecord is one particle position at one step. Step 0 holds the
// initial positions.
type TrajectoryRecord struct {
	Step     int     `csv:"step"`
	Time     float64 `csv:"time"`
	Particle string  `csv:"particle"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        Coord   `csv:"z"`
}

func record(step int, t float64, name string, pos dynamo.Vector) *TrajectoryRecord {
	r := &TrajectoryRecord{Step: step, Time: t, Particle: name, X: pos[0], Y: pos[1]}
	if pos.Dim() == 3 {
		r.Z = Coord{Value: pos[2], Valid: true}
	}
	return r
}

// Records flattens a result into rows ordered by step, then particle.
func Records(result *sim.Result) []*TrajectoryRecord {
	traj := result.Trajectory
	names := traj.Names()
	out := make([]*TrajectoryRecord, 0, (traj.Len()+1)*len(names))

	for i, name := range names {
		if start := traj.Initial(i); start != nil {
			out = append(out, record(0, 0, name, start))
		}
	}
	for step := 0; step < traj.Len(); step++ {
		t := 0.0
		if step < len(result.Times) {
			t = result.Times[step]
		}
		for i, pos := range traj.At(step) {
			out = append(out, record(step+1, t, names[i], pos))
		}
	}
	return out
}

func WriteCSV(w io.Writer, result *sim.Result) error {
	return gocsv.Marshal(Records(result), w)
}

// ReadCSV is the inverse of WriteCSV. Particle order follows first
// appearance in the file.
func ReadCSV(r io.Reader) (*sim.Trajectory, []float64, error) {
	var records []*TrajectoryRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, nil, err
	}

	var names []string
	index := make(map[string]int)
	for _, rec := range records {
		if _, ok := index[rec.Particle]; !ok {
			index[rec.Particle] = len(names)
			names = append(names, rec.Particle)
		}
	}

	initial := make([]dynamo.Vector, len(names))
	var steps [][]dynamo.Vector
	var times []float64
	for _, rec := range records {
		pos := dynamo.Vector{rec.X, rec.Y}
		if rec.Z.Valid {
			pos = append(pos, rec.Z.Value)
		}
		i := index[rec.Particle]

		if rec.Step == 0 {
			initial[i] = pos
			continue
		}
		if rec.Step < 0 || rec.Step > len(steps)+1 {
			return nil, nil, fmt.Errorf("trajectory row for %q: step %d out of order", rec.Particle, rec.Step)
		}
		if rec.Step == len(steps)+1 {
			steps = append(steps, make([]dynamo.Vector, len(names)))
			times = append(times, rec.Time)
		}
		steps[rec.Step-1][i] = pos
	}

	traj := sim.NewTrajectory(names, initial, len(steps))
	for n, positions := range steps {
		for i, p := range positions {
			if p == nil {
				return nil, nil, fmt.Errorf("trajectory step %d: missing %q", n+1, names[i])
			}
		}
		if err := traj.Append(positions); err != nil {
			return nil, nil, err
		}
	}
	return traj, times, nil
}
