package workspace

import (
	"encoding/json"
	"fmt"

	"HandwritingBoard/internal/assets"
	"HandwritingBoard/internal/state"
)

// DocumentVersion is written into every saved document.
const DocumentVersion = 1

// Document is the persisted form of a project. Image sources travel with
// the scene so a reopened project can decode them again.
type Document struct {
	Version int                    `json:"version"`
	Name    string                 `json:"name"`
	Canvas  state.Size             `json:"canvas"`
	Grid    bool                   `json:"grid"`
	Scene   state.Scene            `json:"scene"`
	Images  map[string]ImageSource `json:"images,omitempty"`
}

type ImageSource struct {
	MIME   string  `json:"mime"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   []byte  `json:"data"`
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) SetName(name string) { c.name = name }

// Document captures the current scene with every image it references.
// Selection is not saved.
func (c *Controller) Document() Document {
	scene := c.ws.Scene.Clone().SetSelection("")
	doc := Document{
		Version: DocumentVersion,
		Name:    c.name,
		Canvas:  c.size,
		Grid:    c.ws.ShowGrid,
		Scene:   scene,
	}
	for _, el := range scene.Elements {
		if el.Kind != state.KindImage {
			continue
		}
		src, mime, ok := c.images.Source(el.Image.Handle)
		if !ok {
			continue
		}
		if doc.Images == nil {
			doc.Images = make(map[string]ImageSource)
		}
		doc.Images[el.Image.Handle] = ImageSource{
			MIME:   mime,
			Width:  el.Image.OriginalWidth,
			Height: el.Image.OriginalHeight,
			Data:   src,
		}
	}
	return doc
}

// LoadDocument replaces the workspace content. The loaded scene becomes the
// base of a fresh history, so undo never reaches past it.
func (c *Controller) LoadDocument(doc Document) error {
	if doc.Version > DocumentVersion {
		return fmt.Errorf("document version %d is newer than supported %d", doc.Version, DocumentVersion)
	}
	size := doc.Canvas
	if size.Width <= 0 || size.Height <= 0 {
		size = state.Size{Width: state.DefaultCanvasWidth, Height: state.DefaultCanvasHeight}
	}

	c.images.Reset()
	for handle, img := range doc.Images {
		c.images.Restore(handle, img.Data, assets.Info{MIME: img.MIME, Width: img.Width, Height: img.Height})
	}
	c.name = doc.Name
	c.size = size
	c.ws.ShowGrid = doc.Grid
	c.apply(state.LoadScene(c.ws, doc.Scene))
	return nil
}

// NewDocument resets to an empty, unnamed canvas.
func (c *Controller) NewDocument(name string, size state.Size) error {
	return c.LoadDocument(Document{Version: DocumentVersion, Name: name, Canvas: size, Grid: c.ws.ShowGrid})
}

func EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
