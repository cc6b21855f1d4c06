package export

import (
	"io"

	"HandwritingBoard/internal/render"
	"HandwritingBoard/internal/state"
)

// PNG renders the scene at its logical size, without grid or selection
// decorations, and encodes it.
func PNG(w io.Writer, r *render.Renderer, scene state.Scene, size state.Size) error {
	dc := r.Context(render.Frame{Size: size, Scene: scene})
	return dc.EncodePNG(w)
}
