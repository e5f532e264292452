package render

import (
	"math"

	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/vmath"
)

// Camera orbits the cloth: world points are rotated by yaw then pitch,
// shifted by pan, and viewed from Dist along +Z looking toward -Z
type Camera struct {
	Yaw, Pitch float64
	Dist       float64
	PanX, PanY float64
}

// DefaultCamera frames the hanging demo cloth
func DefaultCamera() Camera {
	return Camera{
		Pitch: parameter.CameraPitch,
		Dist:  parameter.CameraDist,
		PanX:  parameter.CameraPanX,
		PanY:  parameter.CameraPanY,
	}
}

// Orbit rotates the view; pitch stays within ±90°
func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = max(-math.Pi/2, min(math.Pi/2, c.Pitch+dpitch))
}

// Pan shifts the view in screen-aligned world units
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// Zoom changes eye distance, never closer than CameraDistMin
func (c *Camera) Zoom(delta float64) {
	c.Dist = max(parameter.CameraDistMin, c.Dist+delta)
}

// View transforms a world point into eye space
func (c Camera) View(p vmath.Vec3F) vmath.Vec3F {
	v := vmath.V3FRotateYX(p, c.Yaw, c.Pitch)
	return vmath.Vec3F{X: v.X + c.PanX, Y: v.Y + c.PanY, Z: v.Z - c.Dist}
}

// Project maps a world point to a cell in a viewW×viewH viewport
// ok is false when the point is behind the near plane; on-screen is not checked
func (c Camera) Project(p vmath.Vec3F, viewW, viewH int) (sx, sy int, depth float64, ok bool) {
	if viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, false
	}

	v := c.View(p)
	depth = -v.Z
	if depth < parameter.CameraNear {
		return 0, 0, depth, false
	}

	// Physical aspect: cells are CellAspect times taller than wide
	aspect := float64(viewW) / (float64(viewH) * parameter.CellAspect)
	f := 1.0 / math.Tan(parameter.CameraFovY/2)

	ndcX := f * v.X / (depth * aspect)
	ndcY := f * v.Y / depth

	sx = int(math.Floor((ndcX + 1) * 0.5 * float64(viewW)))
	sy = int(math.Floor((1 - ndcY) * 0.5 * float64(viewH)))
	return sx, sy, depth, true
}
