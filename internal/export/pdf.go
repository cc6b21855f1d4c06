package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"

	"HandwritingBoard/internal/fonts"
	"HandwritingBoard/internal/render"
	"HandwritingBoard/internal/state"
)

// pdfFonts maps editor families onto the PDF core fonts.
var pdfFonts = map[string]struct{ family, style string }{
	"sans-serif": {"Helvetica", ""},
	"monospace":  {"Courier", ""},
	"bold":       {"Helvetica", "B"},
	"italic":     {"Helvetica", "I"},
}

// PDF writes a single page sized to the logical canvas, one point per
// logical unit. Like SVG export it leaves out eraser strokes and undecoded
// images.
func PDF(w io.Writer, scene state.Scene, size state.Size, images Images) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, st := range scene.Strokes {
		if st.Eraser || len(st.Points) < 2 {
			continue
		}
		c := render.ParseHex(st.Color)
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetLineWidth(st.Width)
		p.MoveTo(st.Points[0].X, st.Points[0].Y)
		for _, pt := range st.Points[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.DrawPath("D")
	}

	tr := p.UnicodeTranslatorFromDescriptor("")
	registered := make(map[string]bool)
	for _, el := range scene.Elements {
		switch el.Kind {
		case state.KindText:
			f := pdfFonts[fonts.Resolve(el.Text.FontFamily)]
			c := render.ParseHex(el.Text.Color)
			p.SetFont(f.family, f.style, el.Text.FontSize)
			p.SetTextColor(int(c.R), int(c.G), int(c.B))
			p.Text(el.X, el.Y, tr(el.Text.Text))
		case state.KindImage:
			if images == nil {
				continue
			}
			img, ok := images.Image(el.Image.Handle)
			if !ok {
				continue
			}
			name := el.Image.Handle
			if !registered[name] {
				var buf bytes.Buffer
				if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
					return fmt.Errorf("encode image %s: %w", name, err)
				}
				p.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
				registered[name] = true
			}
			p.ImageOptions(name, el.X, el.Y, el.Image.Width, el.Image.Height,
				false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
	}

	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return p.Output(w)
}
