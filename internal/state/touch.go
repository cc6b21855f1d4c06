package state

import "math"

type TouchPhase string

const (
	TouchStart TouchPhase = "start"
	TouchMove  TouchPhase = "move"
	TouchEnd   TouchPhase = "end"
)

// Touch is one contact point, already in logical coordinates.
type Touch struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TouchEvent lists the contacts still down after the change.
type TouchEvent struct {
	Phase   TouchPhase `json:"phase"`
	Touches []Touch    `json:"touches"`
}

// TouchResult is what one touch event turned into: a pointer input for the
// state machine, a new zoom level, or nothing.
type TouchResult struct {
	Pointer *PointerInput
	Zoom    float64
	Zoomed  bool
}

// TouchAdapter turns a touch stream into pointer input. One finger drives
// the pointer; two fingers pinch-zoom and never reach the scene.
type TouchAdapter struct {
	pinching  bool
	startDist float64
	startZoom float64
	pointerOn bool
	last      Point
}

func (a *TouchAdapter) Feed(ev TouchEvent, zoom float64) TouchResult {
	if len(ev.Touches) >= 2 {
		d := distance(ev.Touches[0], ev.Touches[1])
		var res TouchResult
		if a.pointerOn {
			// a second finger landed mid-gesture; finish the single-finger one
			res.Pointer = &PointerInput{Kind: PointerUp, X: a.last.X, Y: a.last.Y}
			a.pointerOn = false
		}
		if !a.pinching {
			a.pinching = true
			a.startDist = d
			a.startZoom = zoom
			return res
		}
		if a.startDist > 0 {
			res.Zoom = ClampZoom(a.startZoom * d / a.startDist)
			res.Zoomed = true
		}
		return res
	}

	if a.pinching {
		if ev.Phase == TouchEnd && len(ev.Touches) == 0 {
			a.pinching = false
		}
		return TouchResult{}
	}

	switch ev.Phase {
	case TouchStart:
		if len(ev.Touches) == 0 {
			return TouchResult{}
		}
		t := ev.Touches[0]
		a.pointerOn = true
		a.last = Point{X: t.X, Y: t.Y}
		return TouchResult{Pointer: &PointerInput{Kind: PointerDown, X: t.X, Y: t.Y}}
	case TouchMove:
		if !a.pointerOn || len(ev.Touches) == 0 {
			return TouchResult{}
		}
		t := ev.Touches[0]
		a.last = Point{X: t.X, Y: t.Y}
		return TouchResult{Pointer: &PointerInput{Kind: PointerMove, X: t.X, Y: t.Y}}
	case TouchEnd:
		if !a.pointerOn {
			return TouchResult{}
		}
		a.pointerOn = false
		return TouchResult{Pointer: &PointerInput{Kind: PointerUp, X: a.last.X, Y: a.last.Y}}
	}
	return TouchResult{}
}

func distance(a, b Touch) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
