// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D display.Drawer that outputs to terminal
// (stdout) using ANSI color codes.
//
// Useful to try the touch calibration screens while the LCD is still on its
// way.
package screen2d

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	X, Y    int
	Palette *ansi256.Palette
	// Out defaults to a color capable stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a pixel display emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette

	img *image.NRGBA
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Each pixel takes one block of the terminal, so keep the size small.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		palette: *p,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.X, opts.Y)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen2D{%s}", d.img.Rect.Max)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a full frame of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != 3*len(d.img.Pix)/4 {
		return 0, errors.New("screen2d: invalid RGB stream length")
	}
	for i, j := 0, 0; i < len(pixels); i, j = i+3, j+4 {
		copy(d.img.Pix[j:j+3], pixels[i:i+3])
		d.img.Pix[j+3] = 255
	}
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
//
// The whole screen is repainted on each call.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.refresh()
}

// At returns the pixel at x, y.
func (d *Dev) At(x, y int) color.NRGBA {
	return d.img.NRGBAAt(x, y)
}

func (d *Dev) refresh() error {
	// Reuse the same buffer to not allocate on each frame.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for y := d.img.Rect.Min.Y; y < d.img.Rect.Max.Y; y++ {
		for x := d.img.Rect.Min.X; x < d.img.Rect.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.img.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
