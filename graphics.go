package main

import (
	"bytes"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorErrorFill  = color.RGBA{120, 30, 30, 255}
	colorSlotFill   = color.RGBA{24, 24, 24, 255}
	colorSpinner    = color.RGBA{200, 200, 200, 255}
	colorButtonFill = color.RGBA{0, 0, 0, 160}
)

// Shared font source for every text drawn by the app
var globalFontSource *text.GoTextFaceSource

// spinner phase advanced by Draw calls; only touched from the draw goroutine
var spinnerPhase float64

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

func fontFace(size float64) *text.GoTextFace {
	if globalFontSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: globalFontSource, Size: size}
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	if font == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

func drawBorder(dst *ebiten.Image, w, h, t float64, c color.RGBA) {
	DrawFilledRect(dst, 0, 0, w, t, c)
	DrawFilledRect(dst, 0, h-t, w, t, c)
	DrawFilledRect(dst, 0, 0, t, h, c)
	DrawFilledRect(dst, w-t, 0, t, h, c)
}

// CreateErrorImage creates a placeholder surface naming the source and the failure
func CreateErrorImage(width, height int, label, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = placeholderImgW, placeholderImgH
	}

	img := ebiten.NewImage(width, height)
	img.Fill(colorErrorFill)
	drawBorder(img, float64(width), float64(height), 3, colorWhite)

	face := fontFace(20)
	if face == nil {
		return img
	}

	lines := []string{"ERROR", "Source: " + filepath.Base(label), "Reason: " + errorMsg}
	maxChars := (width - 20) / 10
	for i, line := range lines {
		DrawText(img, truncateLabel(line, maxChars), face, 10, 30*float64(i+1), colorWhite)
	}
	return img
}

// truncateLabel shortens s to at most limit user-perceived characters,
// ending in "..." when cut. Grapheme clusters are never split.
func truncateLabel(s string, limit int) string {
	if limit <= 3 || uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < limit-3 && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String() + "..."
}

// drawImageInRect scales img into r on dst
func drawImageInRect(dst, img *ebiten.Image, r Rect, alpha float64) {
	if img == nil || r.Empty() || alpha <= 0 {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	op.Filter = ebiten.FilterLinear
	if alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(alpha))
	}
	dst.DrawImage(img, op)
}

// drawLoadingIndicator fills a slot frame and draws a spinner with the
// source label underneath
func drawLoadingIndicator(dst *ebiten.Image, frame Rect, label string) {
	DrawFilledRect(dst, frame.X, frame.Y, frame.W, frame.H, colorSlotFill)

	cx, cy := frame.Center()
	const radius = 18
	spinnerPhase += 0.12
	for i := 0; i < 8; i++ {
		a := spinnerPhase + float64(i)*math.Pi/4
		c := fadeColor(colorSpinner, float64(60+i*24)/255)
		vector.DrawFilledCircle(dst, float32(cx+radius*math.Cos(a)), float32(cy+radius*math.Sin(a)), 3, c, true)
	}

	face := fontFace(14)
	if face == nil || label == "" {
		return
	}
	w, _ := text.Measure(label, face, 0)
	DrawText(dst, label, face, cx-w/2, cy+radius+14, colorSpinner)
}

// fadeColor scales a premultiplied color by alpha
func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// drawDismissButton draws the round close button with an X glyph
func drawDismissButton(dst *ebiten.Image, frame, glyph Rect, alpha float64) {
	if alpha <= 0 {
		return
	}
	fill := fadeColor(colorButtonFill, alpha)
	cx, cy := frame.Center()
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(frame.W/2), fill, true)

	stroke := fadeColor(colorWhite, alpha)
	vector.StrokeLine(dst, float32(glyph.X), float32(glyph.Y), float32(glyph.MaxX()), float32(glyph.MaxY()), 2, stroke, true)
	vector.StrokeLine(dst, float32(glyph.MaxX()), float32(glyph.Y), float32(glyph.X), float32(glyph.MaxY()), 2, stroke, true)
}
