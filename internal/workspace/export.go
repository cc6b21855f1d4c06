package workspace

import (
	"io"

	"HandwritingBoard/internal/export"
)

// ExportPNG writes canvas.png into dir and returns its path.
func (c *Controller) ExportPNG(dir string) (string, error) {
	return c.exportTo(dir, export.RasterFileName, func(w io.Writer) error {
		return export.PNG(w, c.render, c.ws.Scene, c.size)
	})
}

// ExportSVG writes canvas.svg into dir and returns its path.
func (c *Controller) ExportSVG(dir string) (string, error) {
	return c.exportTo(dir, export.VectorFileName, func(w io.Writer) error {
		return export.SVG(w, c.ws.Scene, c.size, c.images)
	})
}

// ExportPDF writes canvas.pdf into dir and returns its path.
func (c *Controller) ExportPDF(dir string) (string, error) {
	return c.exportTo(dir, export.DocumentFileName, func(w io.Writer) error {
		return export.PDF(w, c.ws.Scene, c.size, c.images)
	})
}

// SaveGenerated writes the last generated document as handwriting.svg.
func (c *Controller) SaveGenerated(dir string) (string, error) {
	if len(c.lastSVG) == 0 {
		c.status(Status{Message: msgNothingSaved, IsError: true})
		return "", ErrNothingGenerated
	}
	return c.exportTo(dir, export.GeneratedFileName, func(w io.Writer) error {
		_, err := w.Write(c.lastSVG)
		return err
	})
}

func (c *Controller) exportTo(dir, name string, write func(io.Writer) error) (string, error) {
	path, err := export.WriteFile(dir, name, write)
	if err != nil {
		c.logger.Error("export failed", "file", name, "error", err)
		c.status(Status{Message: "Export failed: " + err.Error(), IsError: true})
		return "", err
	}
	c.logger.Info("exported", "path", path)
	c.status(Status{Message: "Saved " + path})
	return path, nil
}
