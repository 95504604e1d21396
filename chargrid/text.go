// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chargrid

import (
	"fmt"
	"math"
	"strings"

	"github.com/GermanBionicSystems/touchgrid/touchcal"
	"periph.io/x/conn/v3/display"
)

// Text is a character grid on a character LCD.
type Text struct {
	td   display.TextDisplay
	l    touchcal.Limits
	x, y uint8
}

// NewText returns a grid on td. touchcal.Target is written as '*' since
// character LCDs have no crosshair glyph.
func NewText(td display.TextDisplay) *Text {
	return &Text{
		td: td,
		l: touchcal.Limits{
			CharMaxX: uint8(min(td.Cols(), math.MaxUint8)),
			CharMaxY: uint8(min(td.Rows(), math.MaxUint8)),
		},
		x: 1,
		y: 1,
	}
}

func (t *Text) String() string {
	return fmt.Sprintf("chargrid.Text{%s}", t.td)
}

// Limits implements touchcal.Screen.
func (t *Text) Limits() touchcal.Limits {
	return t.l
}

// Clear implements touchcal.Screen.
func (t *Text) Clear() error {
	t.x, t.y = 1, 1
	return t.td.Clear()
}

// SetCursorCell implements touchcal.Screen.
func (t *Text) SetCursorCell(x, y uint8) error {
	if x < 1 || x > t.l.CharMaxX || y < 1 || y > t.l.CharMaxY {
		return fmt.Errorf("chargrid: cell (%d, %d) outside %dx%d grid", x, y, t.l.CharMaxX, t.l.CharMaxY)
	}
	t.x, t.y = x, y
	return t.moveTo(x, y)
}

// DrawChar implements touchcal.Screen.
func (t *Text) DrawChar(c byte) error {
	if c == touchcal.Target {
		c = '*'
	}
	if _, err := t.td.Write([]byte{c}); err != nil {
		return err
	}
	if t.x < t.l.CharMaxX {
		t.x++
		return nil
	}
	// The LCD wraps on its own; put the cursor back on the last column.
	return t.moveTo(t.x, t.y)
}

// ClearLine implements touchcal.Screen.
func (t *Text) ClearLine(y uint8) error {
	if y < 1 || y > t.l.CharMaxY {
		return fmt.Errorf("chargrid: line %d outside %d lines", y, t.l.CharMaxY)
	}
	if err := t.moveTo(1, y); err != nil {
		return err
	}
	if _, err := t.td.WriteString(strings.Repeat(" ", int(t.l.CharMaxX))); err != nil {
		return err
	}
	return t.moveTo(t.x, t.y)
}

// moveTo converts a 1-based cell to the display's row and column numbering.
func (t *Text) moveTo(x, y uint8) error {
	return t.td.MoveTo(int(y)-1+t.td.MinRow(), int(x)-1+t.td.MinCol())
}

var _ touchcal.Screen = &Text{}
