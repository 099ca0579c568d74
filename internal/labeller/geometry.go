package labeller

import (
	"fmt"
	"math"

	"github.com/hedgerow-pam/birdprep/internal/spectrogram"
)

// ScreenPoint is a pointer position in window pixels with the origin at the
// bottom left, the convention plotting libraries use.
type ScreenPoint struct {
	X, Y float64
}

// Rect is the on-screen bounding box of the spectrogram axes, bottom-left
// origin.
type Rect struct {
	X0, Y0        float64
	Width, Height float64
}

// Contains reports whether p lies on or inside r.
func (r Rect) Contains(p ScreenPoint) bool {
	return p.X >= r.X0 && p.X <= r.X0+r.Width &&
		p.Y >= r.Y0 && p.Y <= r.Y0+r.Height
}

// normalize maps p to [0, 1]² relative to r, y still measured upwards.
func (r Rect) normalize(p ScreenPoint) (u, v float64) {
	return (p.X - r.X0) / r.Width, (p.Y - r.Y0) / r.Height
}

// View is the data range shown inside the axes: time from 0 to Duration
// seconds and frequency from MinFreq to MaxFreq on a mel scale.
type View struct {
	Duration float64
	MinFreq  float64
	MaxFreq  float64
}

// frequency returns the Hz value at fraction v of the height.
func (vw View) frequency(v float64) float64 {
	lo, hi := spectrogram.HzToMel(vw.MinFreq), spectrogram.HzToMel(vw.MaxFreq)
	return spectrogram.MelToHz(lo + v*(hi-lo))
}

// DisplayRect is a drawn box in data coordinates: seconds from the chunk
// start and Hz.
type DisplayRect struct {
	Start    float64
	End      float64
	LowFreq  float64
	HighFreq float64
}

// Geometry is a normalized detection box, top-left origin, every value in
// [0, 1].
type Geometry struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// Project converts a drag from a to b over axes into the display rectangle
// and the normalized box. ok is false when either point is outside the axes
// or the drag has no width or height. Swapping a and b gives the same result.
func Project(a, b ScreenPoint, axes Rect, view View) (DisplayRect, Geometry, bool) {
	if axes.Width <= 0 || axes.Height <= 0 {
		return DisplayRect{}, Geometry{}, false
	}
	if !axes.Contains(a) || !axes.Contains(b) {
		return DisplayRect{}, Geometry{}, false
	}
	if a.X == b.X || a.Y == b.Y {
		return DisplayRect{}, Geometry{}, false
	}

	ua, va := axes.normalize(a)
	ub, vb := axes.normalize(b)
	u0, u1 := math.Min(ua, ub), math.Max(ua, ub)
	v0, v1 := math.Min(va, vb), math.Max(va, vb)

	display := DisplayRect{
		Start:    u0 * view.Duration,
		End:      u1 * view.Duration,
		LowFreq:  view.frequency(v0),
		HighFreq: view.frequency(v1),
	}

	// box rows count from the top of the image
	top, bottom := 1-v1, 1-v0
	box := Geometry{
		CenterX: (u0 + u1) / 2,
		CenterY: (top + bottom) / 2,
		Width:   u1 - u0,
		Height:  bottom - top,
	}
	return display, box, true
}

// Box is one labelled region of the current chunk.
type Box struct {
	Class      string
	ClassIndex int
	Geometry
	Display DisplayRect
}

// LabelRow formats b as "<class> <cx> <cy> <w> <h>".
func (b Box) LabelRow() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", b.ClassIndex, b.CenterX, b.CenterY, b.Width, b.Height)
}
