package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="40" viewBox="0 0 120 40">
<path d="M10 20 L110 20" stroke="#000" stroke-width="4" fill="none"/>
</svg>`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type decoded struct {
	handle string
	err    error
}

func newTestRegistry() (*Registry, chan decoded) {
	done := make(chan decoded, 4)
	r := NewRegistry(nil, nil)
	r.OnDecoded(func(h string, err error) { done <- decoded{h, err} })
	return r, done
}

func wait(t *testing.T, done chan decoded) decoded {
	t.Helper()
	select {
	case d := <-done:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("decode did not finish")
	}
	return decoded{}
}

func TestInspectPNG(t *testing.T) {
	info, err := Inspect(pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.Equal(t, Info{MIME: "image/png", Width: 200, Height: 100}, info)
}

func TestInspectSVG(t *testing.T) {
	info, err := Inspect([]byte(sampleSVG))
	require.NoError(t, err)
	assert.Equal(t, MIMESVG, info.MIME)
	assert.Equal(t, 120.0, info.Width)
	assert.Equal(t, 40.0, info.Height)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestAddDecodesInBackground(t *testing.T) {
	r, done := newTestRegistry()
	src := pngBytes(t, 20, 10)
	info, err := Inspect(src)
	require.NoError(t, err)

	h := r.Add(src, info)
	d := wait(t, done)
	require.NoError(t, d.err)
	assert.Equal(t, h, d.handle)

	img, ok := r.Image(h)
	require.True(t, ok)
	assert.Equal(t, 20, img.Bounds().Dx())

	got, mime, ok := r.Source(h)
	require.True(t, ok)
	assert.Equal(t, src, got)
	assert.Equal(t, "image/png", mime)
}

func TestSVGIsRasterisedOversampled(t *testing.T) {
	r, done := newTestRegistry()
	info, err := Inspect([]byte(sampleSVG))
	require.NoError(t, err)

	h := r.Add([]byte(sampleSVG), info)
	require.NoError(t, wait(t, done).err)

	img, ok := r.Image(h)
	require.True(t, ok)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestFailedDecodeIsNeverReady(t *testing.T) {
	r, done := newTestRegistry()
	h := r.Add([]byte("\x89PNG\r\n\x1a\nbroken"), Info{MIME: "image/png", Width: 1, Height: 1})

	d := wait(t, done)
	assert.Error(t, d.err)
	_, ok := r.Image(h)
	assert.False(t, ok)
	st, _ := r.Status(h)
	assert.Equal(t, StatusFailed, st)
}
