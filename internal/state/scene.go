package state

// ElementPatch lists the fields UpdateElement may change. Nil fields are left
// alone.
type ElementPatch struct {
	X          *float64
	Y          *float64
	Text       *string
	FontSize   *float64
	FontFamily *string
	Color      *string
	Width      *float64
	Height     *float64
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// AddStroke appends the stroke. Strokes with fewer than two points are
// discarded.
func (s Scene) AddStroke(stroke Stroke) Scene {
	if len(stroke.Points) < 2 {
		return s
	}
	out := s
	out.Strokes = append(cloneStrokes(s.Strokes), cloneStroke(stroke))
	return out
}

func (s Scene) AddElement(el Element) Scene {
	out := s
	out.Elements = append(cloneElements(s.Elements), el)
	return out
}

// UpdateElement applies patch to the element with the given id. An unknown
// id leaves the scene unchanged.
func (s Scene) UpdateElement(id string, patch ElementPatch) Scene {
	_, i := s.Find(id)
	if i < 0 {
		return s
	}
	out := s
	out.Elements = cloneElements(s.Elements)
	el := &out.Elements[i]
	if patch.X != nil {
		el.X = *patch.X
	}
	if patch.Y != nil {
		el.Y = *patch.Y
	}
	switch el.Kind {
	case KindText:
		if patch.Text != nil {
			el.Text.Text = *patch.Text
		}
		if patch.FontSize != nil {
			el.Text.FontSize = *patch.FontSize
		}
		if patch.FontFamily != nil {
			el.Text.FontFamily = *patch.FontFamily
		}
		if patch.Color != nil {
			el.Text.Color = *patch.Color
		}
	case KindImage:
		if patch.Width != nil {
			el.Image.Width = *patch.Width
		}
		if patch.Height != nil {
			el.Image.Height = *patch.Height
		}
	}
	return out
}

// SetSelection marks id as the only selected element. An empty id clears the
// selection.
func (s Scene) SetSelection(id string) Scene {
	out := s
	out.Elements = cloneElements(s.Elements)
	for i := range out.Elements {
		out.Elements[i].Selected = id != "" && out.Elements[i].ID == id
	}
	return out
}

// BringToFront moves the element to the end of the paint order.
func (s Scene) BringToFront(id string) Scene {
	el, i := s.Find(id)
	if i < 0 || i == len(s.Elements)-1 {
		return s
	}
	out := s
	out.Elements = make([]Element, 0, len(s.Elements))
	out.Elements = append(out.Elements, s.Elements[:i]...)
	out.Elements = append(out.Elements, s.Elements[i+1:]...)
	out.Elements = append(out.Elements, el)
	return out
}

func (s Scene) RemoveElement(id string) Scene {
	_, i := s.Find(id)
	if i < 0 {
		return s
	}
	out := s
	out.Elements = make([]Element, 0, len(s.Elements)-1)
	out.Elements = append(out.Elements, s.Elements[:i]...)
	out.Elements = append(out.Elements, s.Elements[i+1:]...)
	return out
}

func (s Scene) Clear() Scene {
	return Scene{}
}

// Find returns the element with the given id and its index, or -1.
func (s Scene) Find(id string) (Element, int) {
	if id == "" {
		return Element{}, -1
	}
	for i, el := range s.Elements {
		if el.ID == id {
			return el, i
		}
	}
	return Element{}, -1
}

// Selected returns the selected element, if any.
func (s Scene) Selected() (Element, bool) {
	for _, el := range s.Elements {
		if el.Selected {
			return el, true
		}
	}
	return Element{}, false
}

func (s Scene) IsEmpty() bool {
	return len(s.Strokes) == 0 && len(s.Elements) == 0
}

// Clone returns a deep copy that shares no slices with s.
func (s Scene) Clone() Scene {
	return Scene{
		Strokes:  cloneStrokes(s.Strokes),
		Elements: cloneElements(s.Elements),
	}
}

func cloneStroke(st Stroke) Stroke {
	out := st
	if st.Points != nil {
		out.Points = append([]Point(nil), st.Points...)
	}
	return out
}

func cloneStrokes(in []Stroke) []Stroke {
	if in == nil {
		return nil
	}
	out := make([]Stroke, len(in))
	for i, st := range in {
		out[i] = cloneStroke(st)
	}
	return out
}

func cloneElements(in []Element) []Element {
	if in == nil {
		return nil
	}
	out := make([]Element, len(in))
	copy(out, in)
	return out
}
