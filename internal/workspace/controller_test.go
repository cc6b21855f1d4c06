package workspace

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HandwritingBoard/internal/assets"
	"HandwritingBoard/internal/generator"
	"HandwritingBoard/internal/state"
)

const generatedSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100">` +
	`<path d="M10 50 L190 50" stroke="#000000" stroke-width="4" fill="none"/></svg>`

// uiQueue stands in for the UI thread: posted callbacks wait until the test
// runs them.
type uiQueue chan func()

func (q uiQueue) post(fn func()) { q <- fn }

func (q uiQueue) runOne(t *testing.T) {
	t.Helper()
	select {
	case fn := <-q:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("nothing was posted to the UI thread")
	}
}

type fakeGen struct {
	calls atomic.Int32
	svg   []byte
	err   error
}

func (f *fakeGen) Generate(_ context.Context, _ generator.Request) ([]byte, error) {
	f.calls.Add(1)
	return f.svg, f.err
}

type recorder struct {
	statuses   []Status
	generating []bool
	editor     []bool
	changes    int
}

func newController(t *testing.T, gen Generator) (*Controller, uiQueue, *recorder) {
	t.Helper()
	q := make(uiQueue, 16)
	c := New(Options{Generator: gen, Post: q.post})
	rec := &recorder{}
	c.OnStatus = func(s Status) { rec.statuses = append(rec.statuses, s) }
	c.OnGenerating = func(on bool) { rec.generating = append(rec.generating, on) }
	c.OnEditor = func(open bool, _ state.Element) { rec.editor = append(rec.editor, open) }
	c.OnChange = func() { rec.changes++ }
	return c, q, rec
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (c *Controller) drag(kind state.Tool, pts ...state.Point) {
	c.SetTool(kind)
	c.Pointer(state.PointerInput{Kind: state.PointerDown, X: pts[0].X, Y: pts[0].Y})
	for _, p := range pts[1:] {
		c.Pointer(state.PointerInput{Kind: state.PointerMove, X: p.X, Y: p.Y})
	}
	c.Pointer(state.PointerInput{Kind: state.PointerUp})
}

func TestEmptyGenerationTextMakesNoCall(t *testing.T) {
	gen := &fakeGen{svg: []byte(generatedSVG)}
	c, _, rec := newController(t, gen)

	c.Generate(generator.Request{Text: "", Style: 9, Bias: 0.75})

	require.Len(t, rec.statuses, 1, "status is shown synchronously")
	assert.Equal(t, Status{Message: "Please enter some text", IsError: true}, rec.statuses[0])
	assert.Empty(t, rec.generating)
	assert.False(t, c.Generating())
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, gen.calls.Load())
}

func TestGenerationInsertsScaledImage(t *testing.T) {
	gen := &fakeGen{svg: []byte(generatedSVG)}
	c, q, rec := newController(t, gen)

	c.Generate(generator.Request{Text: "Hello", Style: 9, Bias: 0.75})
	assert.True(t, c.Generating())
	c.Generate(generator.Request{Text: "again", Style: 9, Bias: 0.75})

	q.runOne(t)
	assert.Equal(t, int32(1), gen.calls.Load(), "second request ignored while one is pending")
	assert.Equal(t, []bool{true, false}, rec.generating)
	assert.False(t, c.Generating())

	ws := c.Workspace()
	require.Len(t, ws.Scene.Elements, 1)
	el := ws.Scene.Elements[0]
	assert.Equal(t, state.KindImage, el.Kind)
	assert.True(t, el.Selected)
	assert.InDelta(t, 640, el.Image.Width, 1e-9)
	assert.InDelta(t, 320, el.Image.Height, 1e-9)
	assert.InDelta(t, 80, el.X, 1e-9)
	assert.InDelta(t, 140, el.Y, 1e-9)
	assert.Equal(t, 1, ws.History.Len())
	assert.Equal(t, []byte(generatedSVG), c.LastGenerated())
	assert.Equal(t, Status{Message: "Handwriting generated successfully!"}, rec.statuses[len(rec.statuses)-1])

	assert.False(t, c.Images().Ready(el.Image.Handle))
	q.runOne(t)
	assert.True(t, c.Images().Ready(el.Image.Handle))
}

func TestGenerationFailureLeavesSceneAlone(t *testing.T) {
	gen := &fakeGen{err: &generator.StatusError{Code: 500}}
	c, q, rec := newController(t, gen)
	c.InsertText("keep")

	c.Generate(generator.Request{Text: "Hello", Style: 9, Bias: 0.75})
	q.runOne(t)

	assert.Equal(t, Status{Message: "Error: HTTP error! status: 500", IsError: true}, rec.statuses[len(rec.statuses)-1])
	assert.Len(t, c.Workspace().Scene.Elements, 1)
	assert.Equal(t, 1, c.Workspace().History.Len())
	assert.Nil(t, c.LastGenerated())
}

func TestTwoStrokesHelloUndoRedo(t *testing.T) {
	c, _, _ := newController(t, nil)
	c.drag(state.ToolPen, state.Point{X: 10, Y: 10}, state.Point{X: 50, Y: 50})
	c.drag(state.ToolPen, state.Point{X: 60, Y: 10}, state.Point{X: 90, Y: 50})
	c.InsertText("Hello")

	c.Undo()
	assert.Empty(t, c.Workspace().Scene.Elements)
	assert.Len(t, c.Workspace().Scene.Strokes, 2)

	c.Redo()
	require.Len(t, c.Workspace().Scene.Elements, 1)
	assert.Equal(t, "Hello", c.Workspace().Scene.Elements[0].Text.Text)
	assert.False(t, c.CanRedo())
}

func TestTextToolOpensEditor(t *testing.T) {
	c, _, rec := newController(t, nil)
	c.SetTool(state.ToolText)
	c.Pointer(state.PointerInput{Kind: state.PointerDown, X: 100, Y: 100})
	c.Pointer(state.PointerInput{Kind: state.PointerUp, X: 100, Y: 100})

	el, editing := c.Workspace().Editing()
	require.True(t, editing)
	assert.Equal(t, state.PlaceholderText, el.Text.Text)
	assert.Equal(t, []bool{true}, rec.editor)

	c.ConfirmText("Hi")
	assert.Equal(t, []bool{true, false}, rec.editor)
	assert.Equal(t, "Hi", c.Workspace().Scene.Elements[0].Text.Text)
}

func TestImportImage(t *testing.T) {
	c, q, _ := newController(t, nil)
	require.NoError(t, c.ImportImage(pngBytes(t, 40, 20), nil))

	ws := c.Workspace()
	require.Len(t, ws.Scene.Elements, 1)
	el := ws.Scene.Elements[0]
	assert.Equal(t, 50.0, el.X)
	assert.Equal(t, 50.0, el.Y)
	assert.Equal(t, 40.0, el.Image.Width)
	assert.Equal(t, 20.0, el.Image.Height)
	assert.Equal(t, 1, ws.History.Len())

	q.runOne(t)
	assert.True(t, c.Images().Ready(el.Image.Handle))
}

func TestImportLargeImageIsShrunk(t *testing.T) {
	c, q, _ := newController(t, nil)
	at := state.Point{X: 10, Y: 20}
	require.NoError(t, c.ImportImage(pngBytes(t, 1600, 600), &at))
	q.runOne(t)

	el := c.Workspace().Scene.Elements[0]
	assert.Equal(t, 10.0, el.X)
	assert.InDelta(t, 800, el.Image.Width, 1e-9)
	assert.InDelta(t, 300, el.Image.Height, 1e-9)
	assert.Equal(t, 1600.0, el.Image.OriginalWidth)
}

func TestImportRejectsGarbage(t *testing.T) {
	c, _, rec := newController(t, nil)
	err := c.ImportImage([]byte("definitely not an image"), nil)
	assert.ErrorIs(t, err, assets.ErrUnsupported)
	assert.Empty(t, c.Workspace().Scene.Elements)
	assert.Equal(t, Status{Message: "Could not decode image", IsError: true}, rec.statuses[0])
}

func TestDecodeFailureIsReported(t *testing.T) {
	c, q, rec := newController(t, nil)
	full := pngBytes(t, 8, 8)
	// signature and IHDR survive, so the header reads fine but pixels do not
	require.NoError(t, c.ImportImage(full[:33], nil))
	q.runOne(t)

	el := c.Workspace().Scene.Elements[0]
	assert.False(t, c.Images().Ready(el.Image.Handle))
	assert.Equal(t, Status{Message: "Could not decode image", IsError: true}, rec.statuses[len(rec.statuses)-1])
}

func TestPinchZoomLeavesHistoryAlone(t *testing.T) {
	c, _, _ := newController(t, nil)
	c.Touch(state.TouchEvent{Phase: state.TouchStart, Touches: []state.Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 200, Y: 100}}})
	c.Touch(state.TouchEvent{Phase: state.TouchMove, Touches: []state.Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 300, Y: 100}}})
	c.Touch(state.TouchEvent{Phase: state.TouchEnd})

	assert.InDelta(t, 2.0, c.Zoom(), 1e-9)
	assert.Equal(t, 0, c.Workspace().History.Len())
	assert.True(t, c.Workspace().Scene.IsEmpty())
}

func TestZoomIsClamped(t *testing.T) {
	c, _, _ := newController(t, nil)
	for i := 0; i < 20; i++ {
		c.ZoomIn()
	}
	assert.Equal(t, state.MaxZoom, c.Zoom())
	for i := 0; i < 30; i++ {
		c.ZoomOut()
	}
	assert.Equal(t, state.MinZoom, c.Zoom())
	c.ResetZoom()
	assert.Equal(t, 1.0, c.Zoom())
}

func TestPointerOnScreenMapsToLogical(t *testing.T) {
	c, _, _ := newController(t, nil)
	container := state.Size{Width: 1600, Height: 1200}
	c.PointerOnScreen(state.PointerDown, state.Point{X: 200, Y: 200}, container)
	c.PointerOnScreen(state.PointerMove, state.Point{X: 400, Y: 400}, container)
	c.PointerOnScreen(state.PointerUp, state.Point{X: 400, Y: 400}, container)

	strokes := c.Workspace().Scene.Strokes
	require.Len(t, strokes, 1)
	assert.Equal(t, []state.Point{{X: 100, Y: 100}, {X: 200, Y: 200}}, strokes[0].Points)
}

func TestPenSettings(t *testing.T) {
	c, _, _ := newController(t, nil)
	c.SetPenWidth(50)
	assert.Equal(t, 20.0, c.Workspace().Pen.Width)
	c.SetPenWidth(0)
	assert.Equal(t, 1.0, c.Workspace().Pen.Width)
	c.SetPenColor("#ff0000")
	c.drag(state.ToolPen, state.Point{X: 1, Y: 1}, state.Point{X: 5, Y: 5})
	assert.Equal(t, "#ff0000", c.Workspace().Scene.Strokes[0].Color)

	require.NoError(t, c.SetCanvasPreset("a4"))
	assert.Equal(t, state.Size{Width: 794, Height: 1123}, c.CanvasSize())
	assert.Error(t, c.SetCanvasPreset("poster"))
}

func TestDocumentRoundTrip(t *testing.T) {
	c, q, _ := newController(t, nil)
	c.SetName("Poster")
	c.drag(state.ToolPen, state.Point{X: 1, Y: 1}, state.Point{X: 5, Y: 5})
	require.NoError(t, c.ImportImage(pngBytes(t, 40, 20), nil))
	q.runOne(t)

	data, err := EncodeDocument(c.Document())
	require.NoError(t, err)
	doc, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "Poster", doc.Name)
	require.Len(t, doc.Images, 1)

	other, oq, _ := newController(t, nil)
	require.NoError(t, other.LoadDocument(doc))
	ws := other.Workspace()
	assert.Len(t, ws.Scene.Strokes, 1)
	require.Len(t, ws.Scene.Elements, 1)
	assert.False(t, ws.Scene.Elements[0].Selected, "selection is not persisted")
	assert.False(t, other.CanUndo(), "a loaded project is the history base")

	oq.runOne(t)
	assert.True(t, other.Images().Ready(ws.Scene.Elements[0].Image.Handle))

	other.drag(state.ToolPen, state.Point{X: 9, Y: 9}, state.Point{X: 12, Y: 12})
	other.Undo()
	assert.Len(t, other.Workspace().Scene.Strokes, 1, "undo returns to the loaded scene")
}

func TestLoadNewerDocumentFails(t *testing.T) {
	c, _, _ := newController(t, nil)
	assert.Error(t, c.LoadDocument(Document{Version: DocumentVersion + 1}))
}

func TestExports(t *testing.T) {
	gen := &fakeGen{svg: []byte(generatedSVG)}
	c, q, _ := newController(t, gen)
	dir := t.TempDir()

	_, err := c.SaveGenerated(dir)
	assert.ErrorIs(t, err, ErrNothingGenerated)

	c.drag(state.ToolPen, state.Point{X: 1, Y: 1}, state.Point{X: 50, Y: 50})
	c.Generate(generator.Request{Text: "Hi", Style: 9, Bias: 0.75})
	q.runOne(t)
	q.runOne(t)

	for _, export := range []func(string) (string, error){c.ExportPNG, c.ExportSVG, c.ExportPDF, c.SaveGenerated} {
		path, err := export(dir)
		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	svg, err := os.ReadFile(filepath.Join(dir, "canvas.svg"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svg), "data:image/svg+xml;base64,"))

	raw, err := os.ReadFile(filepath.Join(dir, "handwriting.svg"))
	require.NoError(t, err)
	assert.Equal(t, generatedSVG, string(raw))
}

func TestFrameMatchesCanvasSize(t *testing.T) {
	c, _, _ := newController(t, nil)
	img := c.Frame()
	assert.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())
}

func TestFrameIsReusedUntilTheCanvasChanges(t *testing.T) {
	c, q, _ := newController(t, nil)
	first := c.Frame()
	assert.True(t, first == c.Frame(), "nothing changed")

	c.ZoomIn()
	assert.True(t, first == c.Frame(), "zoom only moves the frame on screen")

	c.drag(state.ToolPen, state.Point{X: 10, Y: 10}, state.Point{X: 40, Y: 40})
	afterStroke := c.Frame()
	assert.False(t, first == afterStroke)

	c.ToggleGrid()
	afterGrid := c.Frame()
	assert.False(t, afterStroke == afterGrid)

	require.NoError(t, c.ImportImage(pngBytes(t, 20, 20), nil))
	afterImport := c.Frame()
	q.runOne(t)
	assert.False(t, afterImport == c.Frame(), "a finished decode redraws")

	require.NoError(t, c.SetCanvasPreset("square"))
	assert.Equal(t, image.Rect(0, 0, 1000, 1000), c.Frame().Bounds())
}
