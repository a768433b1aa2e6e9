package dice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"dicepot/models"
)

// ImageStyle controls the geometry of rendered dice
type ImageStyle struct {
	DieSize   float64
	Gap       float64
	Padding   float64
	LabelSize float64
}

// DefaultImageStyle is used by the Discord feature
var DefaultImageStyle = ImageStyle{
	DieSize:   96,
	Gap:       24,
	Padding:   20,
	LabelSize: 18,
}

// pipLayout gives pip centers per face in units of the die size
var pipLayout = map[int][][2]float64{
	1: {{0.5, 0.5}},
	2: {{0.27, 0.27}, {0.73, 0.73}},
	3: {{0.27, 0.27}, {0.5, 0.5}, {0.73, 0.73}},
	4: {{0.27, 0.27}, {0.73, 0.27}, {0.27, 0.73}, {0.73, 0.73}},
	5: {{0.27, 0.27}, {0.73, 0.27}, {0.5, 0.5}, {0.27, 0.73}, {0.73, 0.73}},
	6: {{0.27, 0.25}, {0.73, 0.25}, {0.27, 0.5}, {0.73, 0.5}, {0.27, 0.75}, {0.73, 0.75}},
}

// ImageSize returns the width and height of a rendered throw
func (st ImageStyle) ImageSize() (int, int) {
	width := 2*st.Padding + float64(len(models.DiceTriple{}))*st.DieSize + 2*st.Gap
	height := 2*st.Padding + st.DieSize + st.LabelSize + st.Gap/2
	return int(width), int(height)
}

// RenderDice draws a throw as a PNG. Bust throws are tinted red.
func RenderDice(dice models.DiceTriple, label string, bust bool, st ImageStyle) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Dice image rendered")
	}()

	width, height := st.ImageSize()
	dc := gg.NewContext(width, height)

	// Background gradient
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		if bust {
			dc.SetRGB(0.18+t*0.1, 0.04, 0.05)
		} else {
			dc.SetRGB(0.03, 0.12+t*0.08, 0.08+t*0.04)
		}
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}

	for i, value := range dice {
		x := st.Padding + float64(i)*(st.DieSize+st.Gap)
		drawDie(dc, x, st.Padding, st.DieSize, value, bust)
	}

	if label != "" {
		face, err := loadFont(gobold.TTF, st.LabelSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
		dc.SetFontFace(face)
		if bust {
			dc.SetRGB(1.0, 0.55, 0.55)
		} else {
			dc.SetRGB(0.85, 1.0, 0.85)
		}
		dc.DrawStringAnchored(label, float64(width)/2, st.Padding+st.DieSize+st.Gap/2+st.LabelSize/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawDie draws one die with a drop shadow. Values outside 1..6 render blank.
func drawDie(dc *gg.Context, x, y, size float64, value int, bust bool) {
	radius := size * 0.14

	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRoundedRectangle(x+4, y+4, size, size, radius)
	dc.Fill()

	if bust {
		dc.SetRGB(0.98, 0.88, 0.88)
	} else {
		dc.SetRGB(0.97, 0.97, 0.95)
	}
	dc.DrawRoundedRectangle(x, y, size, size, radius)
	dc.Fill()

	dc.SetRGB(0.25, 0.25, 0.25)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(x, y, size, size, radius)
	dc.Stroke()

	// Scoring faces get red pips
	if value == 1 || value == 5 {
		dc.SetRGB(0.78, 0.1, 0.12)
	} else {
		dc.SetRGB(0.1, 0.1, 0.1)
	}
	for _, p := range pipLayout[value] {
		dc.DrawCircle(x+p[0]*size, y+p[1]*size, size*0.085)
	}
	dc.Fill()
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
