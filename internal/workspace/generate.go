package workspace

import (
	"context"
	"errors"
	"math"

	"HandwritingBoard/internal/assets"
	"HandwritingBoard/internal/generator"
	"HandwritingBoard/internal/state"
)

// Generating reports whether a request is in flight.
func (c *Controller) Generating() bool { return c.generating }

// Generate sends req to the generation service. Blank text is rejected at
// once with no network call. Only one request runs at a time; the result is
// inserted as a selected image scaled to fit the canvas.
func (c *Controller) Generate(req generator.Request) {
	if err := req.Validate(); err != nil {
		if errors.Is(err, generator.ErrEmptyText) {
			c.status(Status{Message: generator.EmptyTextMessage, IsError: true})
		} else {
			c.status(Status{Message: "Error: " + err.Error(), IsError: true})
		}
		return
	}
	if c.generating {
		return
	}
	if c.gen == nil {
		c.status(Status{Message: "Error: generation service not configured", IsError: true})
		return
	}

	c.setGenerating(true)
	c.logger.Info("generation requested", "style", req.Style, "bias", req.Bias)
	gen := c.gen
	go func() {
		svg, err := gen.Generate(context.Background(), req)
		c.post(func() { c.finishGenerate(svg, err) })
	}()
}

func (c *Controller) setGenerating(on bool) {
	c.generating = on
	if c.OnGenerating != nil {
		c.OnGenerating(on)
	}
}

func (c *Controller) finishGenerate(svg []byte, err error) {
	c.setGenerating(false)
	if err != nil {
		c.logger.Warn("generation failed", "error", err)
		c.status(Status{Message: "Error: " + err.Error(), IsError: true})
		return
	}
	info, err := assets.Inspect(svg)
	if err != nil {
		c.logger.Warn("generated document unreadable", "error", err)
		c.status(Status{Message: "Error: " + err.Error(), IsError: true})
		return
	}
	c.lastSVG = svg

	scale := math.Min(c.size.Width*generatedFill/info.Width, c.size.Height*generatedFill/info.Height)
	w, h := info.Width*scale, info.Height*scale
	at := state.Point{X: (c.size.Width - w) / 2, Y: (c.size.Height - h) / 2}

	handle := c.images.Add(svg, info)
	el := state.NewImage(at, w, h, handle)
	c.apply(state.InsertElement(c.ws, el))
	c.status(Status{Message: msgGenerated})
}

// LastGenerated returns the raw SVG of the last successful generation.
func (c *Controller) LastGenerated() []byte { return c.lastSVG }
