package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

// TrajectorySVG draws one path per particle starting at its initial
// position, with a dot at the final position.
func TrajectorySVG(traj *sim.Trajectory, view View, width, height int, theme Theme) string {
	bounds := BoundsOf(traj, view)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, theme.Background))

	for i, name := range traj.Names() {
		points := make([]dynamo.Vector, 0, traj.Len()+1)
		if start := traj.Initial(i); start != nil {
			points = append(points, start)
		}
		points = append(points, traj.Positions(i)...)
		if len(points) == 0 {
			continue
		}
		color := theme.ParticleColor(i)

		sb.WriteString(fmt.Sprintf(`<g id="%s">
<path fill="none" stroke="%s" stroke-width="1.5" d="M`, name, color))
		var lastX, lastY float64
		for j, p := range points {
			u, v := view.Apply(p)
			lastX, lastY = bounds.Map(u, v, width, height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", lastX, lastY))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", lastX, lastY))
			}
		}
		sb.WriteString(fmt.Sprintf(`"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
</g>
`, lastX, lastY, color))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
