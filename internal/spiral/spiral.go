// Package spiral models the animated helical strands of the tree.
//
// A strand is a fixed number of lanes. Each lane holds one point that climbs
// a bounded cone from height 0 to HeightMax and snaps back to 0. The planar
// position of a point is derived from its height alone, so nothing drifts
// between frames.
package spiral

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrSliceCount    = errors.New("spiral: slice count must be positive")
	ErrZeroSlope     = errors.New("spiral: slope must be non-zero and finite")
	ErrCycleDuration = errors.New("spiral: cycle duration must be positive")
	ErrHeightMax     = errors.New("spiral: height max must be positive and finite")
	ErrApexHeight    = errors.New("spiral: apex height must be finite and not below height max")
	ErrNotFinite     = errors.New("spiral: parameter must be finite")
)

// Color is an RGBA colour in [0,1].
type Color [4]float32

// Params describes one strand. It is copied into the Model on construction.
//
// ApexHeight is the height at which the bounding cone reaches zero radius.
// Zero means "same as HeightMax"; otherwise it must be at least HeightMax.
//
// CycleMs is bounded above by float32 precision: a lane at HeightMax must
// still move on a 1ms step, so HeightMax/CycleMs has to exceed half an ulp
// of HeightMax (roughly CycleMs < 8e6 for HeightMax 2).
type Params struct {
	Slices      int
	Rotations   float32
	CycleMs     uint32
	HeightMax   float32
	ApexHeight  float32
	Slope       float32
	AngleOffset float32
	Color       Color
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Validate reports every problem with p, joined.
func (p Params) Validate() error {
	var errs []error
	if p.Slices <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrSliceCount, p.Slices))
	}
	if p.Slope == 0 || !finite(p.Slope) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrZeroSlope, p.Slope))
	}
	if !finite(p.Rotations) {
		errs = append(errs, fmt.Errorf("rotations: %w: got %v", ErrNotFinite, p.Rotations))
	}
	if !finite(p.AngleOffset) {
		errs = append(errs, fmt.Errorf("angle offset: %w: got %v", ErrNotFinite, p.AngleOffset))
	}
	heightOK := p.HeightMax > 0 && finite(p.HeightMax)
	if !heightOK {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrHeightMax, p.HeightMax))
	}
	if !finite(p.ApexHeight) || (heightOK && p.ApexHeight != 0 && p.ApexHeight < p.HeightMax) {
		errs = append(errs, fmt.Errorf("%w: got %v for height max %v", ErrApexHeight, p.ApexHeight, p.HeightMax))
	}
	switch {
	case p.CycleMs == 0:
		errs = append(errs, ErrCycleDuration)
	case heightOK:
		speed := p.HeightMax / float32(p.CycleMs)
		if p.HeightMax+speed == p.HeightMax {
			errs = append(errs, fmt.Errorf("%w: %dms is too long for lanes to move at height %v", ErrCycleDuration, p.CycleMs, p.HeightMax))
		}
	}
	return errors.Join(errs...)
}

// Apex returns the effective cone apex height.
func (p Params) Apex() float32 {
	if p.ApexHeight == 0 {
		return p.HeightMax
	}
	return p.ApexHeight
}

// Sink consumes one strand's points for display.
type Sink interface {
	Submit(points []mgl32.Vec4, color Color)
}

// Model is one animated strand. It is not safe for concurrent use, but
// distinct Models share nothing.
type Model struct {
	params  Params
	apex    float32
	speed   float32 // height units per millisecond
	points  []mgl32.Vec4
	dirty   bool
	wrapped int
	closed  bool
}

// New builds a strand with its lanes spread evenly from 0 up to HeightMax.
func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		params: p,
		apex:   p.Apex(),
		speed:  p.HeightMax / float32(p.CycleMs),
		points: make([]mgl32.Vec4, p.Slices),
		dirty:  true,
	}
	step := p.HeightMax / float32(p.Slices)
	for i := range m.points {
		m.points[i][1] = step * float32(i)
		m.points[i][3] = 1
		m.place(&m.points[i])
	}
	return m, nil
}

// Radius is the distance from the trunk of the bounding cone at height y.
func (m *Model) Radius(y float32) float32 {
	return (y - m.apex) / m.params.Slope
}

// place sets x and z from the point's current height.
func (m *Model) place(pt *mgl32.Vec4) {
	y := pt[1]
	r := m.Radius(y)
	theta := m.params.Rotations*2*y + m.params.AngleOffset
	pt[0] = r * math32.Cos(theta)
	pt[2] = r * math32.Sin(theta+math32.Pi)
}

// Update advances every lane by dtMs milliseconds. A zero delta counts as 1ms.
// A lane that climbs past HeightMax restarts at exactly 0.
func (m *Model) Update(dtMs uint32) {
	if m.closed {
		return
	}
	if dtMs == 0 {
		dtMs = 1
	}
	dy := m.speed * float32(dtMs)
	m.wrapped = 0
	for i := range m.points {
		pt := &m.points[i]
		pt[1] += dy
		if pt[1] > m.params.HeightMax {
			pt[1] = 0
			m.wrapped++
		}
		m.place(pt)
	}
	m.dirty = true
}

// Wrapped reports how many lanes restarted during the last Update.
func (m *Model) Wrapped() int { return m.wrapped }

// Points returns the live point buffer. Callers must not retain it across Update.
func (m *Model) Points() []mgl32.Vec4 { return m.points }

// Color returns the strand colour.
func (m *Model) Color() Color { return m.params.Color }

// Params returns the parameters the strand was built with.
func (m *Model) Params() Params { return m.params }

// Dirty reports whether the points changed since the last Render.
func (m *Model) Dirty() bool { return m.dirty }

// Render hands the current points to sink and clears the dirty flag.
func (m *Model) Render(sink Sink) {
	if m.closed || len(m.points) == 0 {
		return
	}
	sink.Submit(m.points, m.params.Color)
	m.dirty = false
}

// Close drops the point buffer. Calling it more than once is harmless.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.points = nil
	m.dirty = false
	m.wrapped = 0
}
