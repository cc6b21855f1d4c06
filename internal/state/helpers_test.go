package state

// fixedMeasurer treats every glyph as half an em wide.
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(text string, fontSize float64, _ string) float64 {
	return float64(len([]rune(text))) * fontSize * 0.5
}

var measure fixedMeasurer

func press(ws Workspace, kind PointerKind, x, y float64) Workspace {
	ws, _ = Step(ws, PointerInput{Kind: kind, X: x, Y: y}, measure)
	return ws
}

func drawStroke(ws Workspace, pts ...Point) Workspace {
	ws = press(ws, PointerDown, pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		ws = press(ws, PointerMove, p.X, p.Y)
	}
	return press(ws, PointerUp, pts[len(pts)-1].X, pts[len(pts)-1].Y)
}

func imageAt(x, y, w, h float64) Element {
	return NewImage(Point{X: x, Y: y}, w, h, "img")
}

func selectedCount(s Scene) int {
	n := 0
	for _, el := range s.Elements {
		if el.Selected {
			n++
		}
	}
	return n
}
