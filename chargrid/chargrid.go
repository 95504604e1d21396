// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package chargrid turns a display into the fixed pitch character grid the
// touch calibration draws on.
//
// Dev works on any pixel display.Drawer, rendering glyphs of a font.Face into
// a back buffer and sending only the updated cell to the display. Text wraps a
// character LCD implementing display.TextDisplay.
package chargrid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/GermanBionicSystems/touchgrid/touchcal"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// DefaultOpts is the recommended default options: white 7x13 text on black.
var DefaultOpts = Opts{
	Face:       basicfont.Face7x13,
	Foreground: color.White,
	Background: color.Black,
}

// Opts defines the options for Dev.
type Opts struct {
	// Face is the font. Proportional faces are laid out on a grid as wide as
	// their widest capital letter.
	Face       font.Face
	Foreground color.Color
	Background color.Color

	_ struct{}
}

// NewTrueTypeFace returns the Go Regular font at size points, for displays
// with enough pixels to make basicfont look tiny.
func NewTrueTypeFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("chargrid: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}

// Dev is a character grid on a pixel display.
type Dev struct {
	d      display.Drawer
	face   font.Face
	fg, bg color.Color
	// Cell size and glyph baseline, in pixels.
	cw, ch, ascent int
	l              touchcal.Limits

	buf  *image.RGBA
	dc   *gg.Context
	x, y uint8
}

// New returns a character grid covering d. Leftover pixels on the right and
// bottom edges are not used.
func New(d display.Drawer, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	g := &Dev{d: d, face: opts.Face, fg: opts.Foreground, bg: opts.Background}
	if g.face == nil {
		g.face = DefaultOpts.Face
	}
	if g.fg == nil {
		g.fg = DefaultOpts.Foreground
	}
	if g.bg == nil {
		g.bg = DefaultOpts.Background
	}
	m := g.face.Metrics()
	g.ch = m.Height.Ceil()
	g.ascent = m.Ascent.Ceil()
	for _, r := range "MW" {
		if a, ok := g.face.GlyphAdvance(r); ok && a.Ceil() > g.cw {
			g.cw = a.Ceil()
		}
	}
	if g.cw == 0 || g.ch == 0 {
		return nil, errors.New("chargrid: font has no usable metrics")
	}
	size := d.Bounds().Size()
	cols, rows := size.X/g.cw, size.Y/g.ch
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("chargrid: display %s too small for %dx%d cells", size, g.cw, g.ch)
	}
	g.l = touchcal.Limits{CharMaxX: uint8(min(cols, math.MaxUint8)), CharMaxY: uint8(min(rows, math.MaxUint8))}
	g.buf = image.NewRGBA(image.Rectangle{Max: size})
	g.dc = gg.NewContextForRGBA(g.buf)
	g.dc.SetFontFace(g.face)
	g.x, g.y = 1, 1
	return g, nil
}

func (g *Dev) String() string {
	return fmt.Sprintf("chargrid.Dev{%s, %dx%d}", g.d, g.l.CharMaxX, g.l.CharMaxY)
}

// Limits implements touchcal.Screen.
func (g *Dev) Limits() touchcal.Limits {
	return g.l
}

// Clear implements touchcal.Screen.
func (g *Dev) Clear() error {
	g.dc.SetColor(g.bg)
	g.dc.Clear()
	g.x, g.y = 1, 1
	return g.flush(g.buf.Rect)
}

// SetCursorCell implements touchcal.Screen.
func (g *Dev) SetCursorCell(x, y uint8) error {
	if x < 1 || x > g.l.CharMaxX || y < 1 || y > g.l.CharMaxY {
		return fmt.Errorf("chargrid: cell (%d, %d) outside %dx%d grid", x, y, g.l.CharMaxX, g.l.CharMaxY)
	}
	g.x, g.y = x, y
	return nil
}

// DrawChar implements touchcal.Screen.
//
// touchcal.Target is drawn as a crosshair. Only printable ASCII is rendered,
// other bytes leave the cell blank. The cursor stays on the last column once
// it reaches it.
func (g *Dev) DrawChar(c byte) error {
	r := g.cell(g.x, g.y)
	g.fill(r)
	g.dc.SetColor(g.fg)
	switch {
	case c == touchcal.Target:
		g.crosshair(r)
	case c > ' ' && c < 0x7f:
		g.dc.DrawString(string(rune(c)), float64(r.Min.X), float64(r.Min.Y+g.ascent))
	}
	if g.x < g.l.CharMaxX {
		g.x++
	}
	return g.flush(r)
}

// ClearLine implements touchcal.Screen.
func (g *Dev) ClearLine(y uint8) error {
	if y < 1 || y > g.l.CharMaxY {
		return fmt.Errorf("chargrid: line %d outside %d lines", y, g.l.CharMaxY)
	}
	r := g.cell(1, y)
	r.Max.X = int(g.l.CharMaxX) * g.cw
	g.fill(r)
	return g.flush(r)
}

// cell returns the pixel rectangle of a 1-based cell.
func (g *Dev) cell(x, y uint8) image.Rectangle {
	p := image.Pt((int(x)-1)*g.cw, (int(y)-1)*g.ch)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(g.cw, g.ch))}
}

func (g *Dev) fill(r image.Rectangle) {
	g.dc.SetColor(g.bg)
	g.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	g.dc.Fill()
}

// crosshair draws a circle with a cross through it, centered in r.
func (g *Dev) crosshair(r image.Rectangle) {
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	radius := float64(min(r.Dx(), r.Dy()))/2 - 1
	g.dc.SetLineWidth(1)
	g.dc.SetLineCapButt()
	g.dc.DrawLine(float64(r.Min.X), cy, float64(r.Max.X), cy)
	g.dc.DrawLine(cx, float64(r.Min.Y), cx, float64(r.Max.Y))
	g.dc.Stroke()
	if radius > 1 {
		g.dc.DrawCircle(cx, cy, radius)
		g.dc.Stroke()
	}
}

func (g *Dev) flush(r image.Rectangle) error {
	dst := r.Add(g.d.Bounds().Min)
	return g.d.Draw(dst, g.buf, r.Min)
}

var _ touchcal.Screen = &Dev{}
var _ fmt.Stringer = &Dev{}
