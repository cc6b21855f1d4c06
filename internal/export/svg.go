package export

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"HandwritingBoard/internal/state"
)

// SVG writes the scene as a vector document whose viewBox is the logical
// canvas. Eraser strokes are left out, as are images whose decode has not
// finished.
func SVG(w io.Writer, scene state.Scene, size state.Size, images Images) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(size.Width, size.Height,
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(size.Width), num(size.Height)))

	for _, st := range scene.Strokes {
		if st.Eraser || len(st.Points) < 2 {
			continue
		}
		canvas.Path(pathData(st.Points),
			`fill="none"`,
			fmt.Sprintf(`stroke="%s"`, st.Color),
			fmt.Sprintf(`stroke-width="%s"`, num(st.Width)),
			`stroke-linecap="round"`,
			`stroke-linejoin="round"`,
		)
	}

	for _, el := range scene.Elements {
		switch el.Kind {
		case state.KindText:
			canvas.Text(el.X, el.Y, el.Text.Text, fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s",
				el.Text.FontFamily, num(el.Text.FontSize), el.Text.Color))
		case state.KindImage:
			if images == nil {
				continue
			}
			if _, ok := images.Image(el.Image.Handle); !ok {
				continue
			}
			src, mime, ok := images.Source(el.Image.Handle)
			if !ok {
				continue
			}
			writeImage(canvas, el, dataURI(mime, src))
		}
	}

	canvas.End()
	return bw.Flush()
}

// writeImage emits an <image> with fractional geometry. svgo's Image takes
// integer sizes, which would skew an aspect-locked resize.
func writeImage(canvas *svg.SVG, el state.Element, href string) {
	fmt.Fprintf(canvas.Writer, `<image x="%s" y="%s" width="%s" height="%s" xlink:href="%s" preserveAspectRatio="none"/>`+"\n",
		num(el.X), num(el.Y), num(el.Image.Width), num(el.Image.Height), href)
}

func pathData(pts []state.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteByte(' ')
		b.WriteString(num(p.Y))
	}
	return b.String()
}

func dataURI(mime string, src []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(src)
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
