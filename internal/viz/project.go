package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

// Plane selects which two coordinates are drawn.
type Plane struct {
	U, V int
}

var (
	PlaneXY = Plane{0, 1}
	PlaneXZ = Plane{0, 2}
	PlaneYZ = Plane{1, 2}
)

func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(s) {
	case "", "xy":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "yz":
		return PlaneYZ, nil
	default:
		return Plane{}, fmt.Errorf("unknown plane: %s", s)
	}
}

func (p Plane) String() string {
	axes := "xyz"
	return axes[p.U:p.U+1] + axes[p.V:p.V+1]
}

// View projects positions onto a plane, optionally rotating 3D points
// about the x and y axes first.
type View struct {
	Plane      Plane
	RotX, RotY float64
}

// Apply returns the planar coordinates of v. Planar vectors ignore the
// plane and rotation.
func (w View) Apply(v dynamo.Vector) (float64, float64) {
	if v.Dim() < 3 {
		return v[0], v[1]
	}
	x, y, z := v[0], v[1], v[2]

	cx, sx := math.Cos(w.RotX), math.Sin(w.RotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	cy, sy := math.Cos(w.RotY), math.Sin(w.RotY)
	x, z = x*cy+z*sy, -x*sy+z*cy

	p := [3]float64{x, y, z}
	return p[w.Plane.U], p[w.Plane.V]
}

// Bounds is a padded planar bounding box.
type Bounds struct {
	MinU, MaxU, MinV, MaxV float64
}

// BoundsOf covers every recorded and initial position in the view, with
// ten percent padding on each side.
func BoundsOf(traj *sim.Trajectory, view View) Bounds {
	b := Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	grow := func(v dynamo.Vector) {
		if v == nil {
			return
		}
		u, w := view.Apply(v)
		b.MinU, b.MaxU = math.Min(b.MinU, u), math.Max(b.MaxU, u)
		b.MinV, b.MaxV = math.Min(b.MinV, w), math.Max(b.MaxV, w)
	}
	for i := 0; i < traj.NumParticles(); i++ {
		grow(traj.Initial(i))
		for _, p := range traj.Positions(i) {
			grow(p)
		}
	}
	if math.IsInf(b.MinU, 1) {
		return Bounds{-1, 1, -1, 1}
	}

	rangeU, rangeV := b.MaxU-b.MinU, b.MaxV-b.MinV
	if rangeU == 0 {
		rangeU = 1
	}
	if rangeV == 0 {
		rangeV = 1
	}
	b.MinU -= rangeU * 0.1
	b.MaxU += rangeU * 0.1
	b.MinV -= rangeV * 0.1
	b.MaxV += rangeV * 0.1
	return b
}

// Map scales planar coordinates into a width x height box with the v axis
// pointing up.
func (b Bounds) Map(u, v float64, width, height int) (float64, float64) {
	x := (u - b.MinU) / (b.MaxU - b.MinU) * float64(width)
	y := float64(height) - (v-b.MinV)/(b.MaxV-b.MinV)*float64(height)
	return x, y
}
