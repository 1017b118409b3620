package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/existflow/lifelist/internal/model"
)

const (
	CardWidth  = 800
	CardHeight = 600
	// cardWrap is the goal-text line width in characters
	cardWrap = 40
	// cardScale enlarges the 7x13 bitmap face; the card is drawn at half size then scaled up
	cardScale = 2
)

var categoryColors = map[model.Category]color.RGBA{
	model.CategoryTravel:       {0x3b, 0x82, 0xf6, 0xff},
	model.CategoryHobby:        {0xa8, 0x55, 0xf7, 0xff},
	model.CategoryCareer:       {0xf5, 0x9e, 0x0b, 0xff},
	model.CategoryRelationship: {0xec, 0x48, 0x99, 0xff},
	model.CategoryHealth:       {0x10, 0xb9, 0x81, 0xff},
	model.CategoryOther:        {0x6b, 0x72, 0x80, 0xff},
}

var (
	cardBackground = color.RGBA{0xfa, 0xfa, 0xf9, 0xff}
	cardHeader     = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	cardText       = color.RGBA{0x11, 0x18, 0x27, 0xff}
	cardMuted      = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

// Card is an encoded achievement card
type Card struct {
	Data        []byte
	ContentType string
	Ext         string
}

// RenderCard draws an 800x600 achievement card for goal and encodes it in the
// settings' format (JPEG at the configured quality, or PNG).
func RenderCard(goal model.Goal, profileName string, settings model.ImageSettings) (*Card, error) {
	img := drawCard(goal, profileName)

	var buf bytes.Buffer
	if settings.Format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode card: %w", err)
		}
		return &Card{Data: buf.Bytes(), ContentType: "image/png", Ext: "png"}, nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(settings.Quality)}); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return &Card{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: "jpg"}, nil
}

func drawCard(goal model.Goal, profileName string) *image.RGBA {
	w, h := CardWidth/cardScale, CardHeight/cardScale
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	// header band
	draw.Draw(small, image.Rect(0, 0, w, 40), image.NewUniform(cardHeader), image.Point{}, draw.Src)
	label := "GOAL IN PROGRESS"
	if goal.Completed {
		label = "GOAL ACHIEVED!"
	}
	text(small, label, centered(w, label), 25, color.White)

	// category badge
	badge := strings.ToUpper(string(goal.Category))
	bw := textWidth(badge) + 16
	bx := (w - bw) / 2
	bc, ok := categoryColors[goal.Category]
	if !ok {
		bc = categoryColors[model.CategoryOther]
	}
	draw.Draw(small, image.Rect(bx, 52, bx+bw, 70), image.NewUniform(bc), image.Point{}, draw.Src)
	text(small, badge, bx+8, 65, color.White)

	y := 95
	for _, line := range Wrap(goal.Text, cardWrap) {
		text(small, line, centered(w, line), y, cardText)
		y += 16
	}

	y += 8
	if goal.Completed && goal.CompletedAt != nil {
		when := "Completed " + goal.CompletedAt.Format("January 2, 2006")
		text(small, when, centered(w, when), y, cardMuted)
		y += 18
	}
	if goal.CompletionNote != "" {
		for i, line := range Wrap(`"`+goal.CompletionNote+`"`, 50) {
			if i == 4 {
				break
			}
			text(small, line, centered(w, line), y, cardMuted)
			y += 14
		}
	}

	if profileName != "" {
		by := "- " + profileName
		text(small, by, w-textWidth(by)-16, h-36, cardText)
	}
	footer := "lifelist - my bucket list journey"
	text(small, footer, centered(w, footer), h-12, cardMuted)

	out := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}

func text(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func centered(width int, s string) int {
	return max(0, (width-textWidth(s))/2)
}

func jpegQuality(q float64) int {
	return max(1, min(100, int(math.Round(q*100))))
}
