// Package fonts loads the bundled Go fonts and hands out sized faces. The
// same faces drive hit-test measurement and rendering, so a text element's
// box always matches its pixels.
package fonts

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Families lists the font family names the editor offers.
var Families = []string{"sans-serif", "monospace", "bold", "italic"}

var sources = map[string][]byte{
	"sans-serif": goregular.TTF,
	"monospace":  gomono.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
}

// aliases maps common CSS family names onto the bundled ones.
var aliases = map[string]string{
	"arial":       "sans-serif",
	"helvetica":   "sans-serif",
	"sans":        "sans-serif",
	"serif":       "sans-serif",
	"courier":     "monospace",
	"courier new": "monospace",
	"mono":        "monospace",
}

// faceStep is the size granularity of faces. Text being resized asks for a
// new fractional size on every pointer move.
const faceStep = 0.5

// maxFaces bounds the face cache; past it the cache starts over.
const maxFaces = 256

func faceSize(size float64) float64 {
	if size <= 0 {
		return faceStep
	}
	return math.Max(faceStep, math.Round(size/faceStep)*faceStep)
}

type faceKey struct {
	family string
	size   float64
}

// Cache keeps parsed fonts and faces per (family, size).
type Cache struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

func NewCache() *Cache {
	return &Cache{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Resolve maps a requested family onto one of Families.
func Resolve(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	if _, ok := sources[f]; ok {
		return f
	}
	if a, ok := aliases[f]; ok {
		return a
	}
	return "sans-serif"
}

// Face returns a face for family at size pixels.
func (c *Cache) Face(family string, size float64) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.face(family, size)
}

func (c *Cache) face(family string, size float64) (font.Face, error) {
	family = Resolve(family)
	size = faceSize(size)
	key := faceKey{family: family, size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	if len(c.faces) >= maxFaces {
		c.faces = make(map[faceKey]font.Face)
	}

	parsed, ok := c.fonts[family]
	if !ok {
		var err error
		parsed, err = opentype.Parse(sources[family])
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", family, err)
		}
		c.fonts[family] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %s/%g: %w", family, size, err)
	}
	c.faces[key] = face
	return face, nil
}

// MeasureText returns the advance width of text in pixels. A face that
// fails to load measures as zero width rather than failing hit tests.
func (c *Cache) MeasureText(text string, fontSize float64, fontFamily string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	face, err := c.face(fontFamily, fontSize)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, text)) / 64
}
