// Package view holds the frame clock and the orbiting camera that frames
// the tree.
package view

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults, in tree units.
const (
	DefaultDistance = 4.2
	DefaultTarget   = 0.9
	NearPlane       = 0.1
	FarPlane        = 50.0
)

// Camera orbits the vertical axis of the tree, looking at Target.
type Camera struct {
	FovDeg      float32
	Distance    float32
	Target      float32 // height of the look-at point
	SpinPeriodS float32 // seconds per revolution, 0 = still

	Angle float32 // current orbit angle in radians
}

// NewCamera returns a camera at the default distance and target height.
func NewCamera(fovDeg, spinPeriodS float32) Camera {
	return Camera{
		FovDeg:      fovDeg,
		Distance:    DefaultDistance,
		Target:      DefaultTarget,
		SpinPeriodS: spinPeriodS,
	}
}

// Update advances the orbit by dtMs milliseconds.
func (c *Camera) Update(dtMs uint32) {
	if c.SpinPeriodS <= 0 {
		return
	}
	c.Angle += 2 * math32.Pi * float32(dtMs) / (c.SpinPeriodS * 1000)
	c.Angle = math32.Mod(c.Angle, 2*math32.Pi)
}

// Projection returns the perspective matrix for a framebuffer of fbW x fbH.
func (c Camera) Projection(fbW, fbH int) mgl32.Mat4 {
	aspect := float32(1)
	if fbW > 0 && fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovDeg), aspect, NearPlane, FarPlane)
}

// ModelView spins the tree by Angle and places the eye on the +Z axis.
func (c Camera) ModelView() mgl32.Mat4 {
	eye := mgl32.Vec3{0, c.Target, c.Distance}
	center := mgl32.Vec3{0, c.Target, 0}
	look := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
	return look.Mul4(mgl32.HomogRotate3DY(c.Angle))
}
