package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitals/internal/density"
)

// Plane selects the two coordinates a projection keeps.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

var planeNames = [...]string{"xy", "xz", "yz"}

func (p Plane) String() string {
	if p < PlaneXY || p > PlaneYZ {
		return fmt.Sprintf("plane(%d)", int(p))
	}
	return planeNames[p]
}

func ParsePlane(s string) (Plane, error) {
	for i, name := range planeNames {
		if strings.EqualFold(s, name) {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("analysis: unknown plane %q", s)
}

// ProjectionPoint is one retained point flattened onto a plane.
type ProjectionPoint struct {
	U, V     float64
	Positive bool
}

// Projection holds a point cloud flattened along one axis.
type Projection struct {
	Plane  Plane
	Points []ProjectionPoint
}

func Project(retained []density.Retained, plane Plane) *Projection {
	proj := &Projection{
		Plane:  plane,
		Points: make([]ProjectionPoint, 0, len(retained)),
	}
	for _, p := range retained {
		u, v := p.X, p.Y
		switch plane {
		case PlaneXZ:
			u, v = p.X, p.Z
		case PlaneYZ:
			u, v = p.Y, p.Z
		}
		proj.Points = append(proj.Points, ProjectionPoint{U: u, V: v, Positive: p.Positive()})
	}
	return proj
}

// ToASCII draws the projection centered on the nucleus. Cells dominated by
// the positive phase are '+', negative '-', and ties '·'.
func (proj *Projection) ToASCII(width, height int) string {
	if proj == nil || len(proj.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	extent := 0.0
	for _, p := range proj.Points {
		extent = math.Max(extent, math.Max(math.Abs(p.U), math.Abs(p.V)))
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	balance := make([][]int, height)
	hits := make([][]bool, height)
	for i := range balance {
		balance[i] = make([]int, width)
		hits[i] = make([]bool, width)
	}

	for _, p := range proj.Points {
		col := int((p.U + extent) / (2 * extent) * float64(width-1))
		row := height - 1 - int((p.V+extent)/(2*extent)*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		hits[row][col] = true
		if p.Positive {
			balance[row][col]++
		} else {
			balance[row][col]--
		}
	}

	midCol := (width - 1) / 2
	midRow := height - 1 - (height-1)/2

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			switch {
			case hits[row][col] && balance[row][col] > 0:
				sb.WriteRune('+')
			case hits[row][col] && balance[row][col] < 0:
				sb.WriteRune('-')
			case hits[row][col]:
				sb.WriteRune('·')
			case col == midCol:
				sb.WriteRune('│')
			case row == midRow:
				sb.WriteRune('─')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
