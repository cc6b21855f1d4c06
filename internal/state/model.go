package state

// Point is a position in logical canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one finished pen or eraser drag.
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Eraser bool    `json:"eraser,omitempty"`
}

type ElementKind string

const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
)

// TextBody is the payload of a text element. The owning element's X,Y is the
// left end of the baseline.
type TextBody struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Color      string  `json:"color"`
}

// ImageBody is the payload of an image element. The owning element's X,Y is
// the top-left corner.
type ImageBody struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	OriginalWidth  float64 `json:"originalWidth"`
	OriginalHeight float64 `json:"originalHeight"`
	Handle         string  `json:"handle"`
}

// Element is a placed, selectable object. Kind decides which payload is live.
type Element struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Selected bool        `json:"isSelected"`
	Text     TextBody    `json:"text,omitempty"`
	Image    ImageBody   `json:"image,omitempty"`
}

// NewText builds an unselected text element with a fresh id.
func NewText(at Point, text string, style TextStyle) Element {
	return Element{
		ID:   NewID(),
		Kind: KindText,
		X:    at.X,
		Y:    at.Y,
		Text: TextBody{
			Text:       text,
			FontSize:   style.FontSize,
			FontFamily: style.FontFamily,
			Color:      style.Color,
		},
	}
}

// NewImage builds an unselected image element. The original size is recorded
// so later resizes keep the aspect ratio.
func NewImage(at Point, width, height float64, handle string) Element {
	return Element{
		ID:   NewID(),
		Kind: KindImage,
		X:    at.X,
		Y:    at.Y,
		Image: ImageBody{
			Width:          width,
			Height:         height,
			OriginalWidth:  width,
			OriginalHeight: height,
			Handle:         handle,
		},
	}
}

// Scene holds everything that has been drawn. Elements are in paint order.
type Scene struct {
	Strokes  []Stroke  `json:"strokes"`
	Elements []Element `json:"elements"`
}

type Tool string

const (
	ToolSelect Tool = "select"
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
	ToolText   Tool = "text"
)

// Mode is the interaction state.
type Mode string

const (
	ModeIdle        Mode = "idle"
	ModeDrawing     Mode = "drawing"
	ModeDragging    Mode = "dragging"
	ModeResizing    Mode = "resizing"
	ModeTextEditing Mode = "textEditing"
)

// Pen is the style applied to new strokes.
type Pen struct {
	Color string
	Width float64
}

// TextStyle is the style applied to new text elements.
type TextStyle struct {
	FontSize   float64
	FontFamily string
	Color      string
}

const (
	DefaultPenColor     = "#000000"
	DefaultPenWidth     = 3
	MinPenWidth         = 1
	MaxPenWidth         = 20
	DefaultFontSize     = 24
	DefaultFontFamily   = "sans-serif"
	PlaceholderText     = "Text"
	DefaultTolerance    = 5
	DefaultHandleSize   = 8
	MinElementSize      = 10
	EraserWidthFactor   = 2
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)
