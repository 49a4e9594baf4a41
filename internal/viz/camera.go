package viz

import (
	"math"

	"github.com/san-kum/orbitals/internal/pipeline"
	"gonum.org/v1/gonum/num/quat"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera projects world points onto the canvas. World coordinates are divided
// by Extent first, so the cloud fits a unit sphere at Zoom 1.
type Camera struct {
	Distance, Near float64
	Zoom           float64
	Extent         float64

	orientation pipeline.Orientation
	rot         quat.Number
}

func NewCamera() *Camera {
	return &Camera{Distance: 3, Near: 0.1, Zoom: 1, Extent: 1, rot: quat.Number{Real: 1}}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// SetOrientation rotates about X, then Y, then Z.
func (c *Camera) SetOrientation(o pipeline.Orientation) {
	if o == c.orientation {
		return
	}
	c.orientation = o
	c.rot = quat.Mul(axisAngle(0, 0, 1, o.Z), quat.Mul(axisAngle(0, 1, 0, o.Y), axisAngle(1, 0, 0, o.X)))
}

func axisAngle(x, y, z, angle float64) quat.Number {
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: x * s, Jmag: y * s, Kmag: z * s}
}

// RotatePoint applies the camera orientation to p.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	v := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	r := quat.Mul(quat.Mul(c.rot, v), quat.Conj(c.rot))
	return Vec3{r.Imag, r.Jmag, r.Kmag}
}

// Project converts world coordinates to sub-pixel screen coordinates.
// Returns x, y, distance from the camera, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	extent := c.Extent
	if !(extent > 0) {
		extent = 1
	}
	rot := c.RotatePoint(p.Scale(c.Zoom / extent))
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, dist - rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawAxes draws the three world axes out to length l, in world units.
func DrawAxes(cv *Canvas, cam *Camera, l float64) {
	sw, sh := cv.Width*2, cv.Height*4
	ox, oy, _, _ := cam.Project(Vec3{}, sw, sh)
	for _, end := range []Vec3{{X: l}, {Y: l}, {Z: l}} {
		ex, ey, _, ok := cam.Project(end, sw, sh)
		if ok {
			cv.DrawLine(ox, oy, ex, ey)
		}
	}
}
