// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chargrid

import (
	"fmt"
	"testing"

	"github.com/GermanBionicSystems/touchgrid/touchcal"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/display"
)

// fakeLCD is a 0-based row and column TextDisplay that keeps its content.
type fakeLCD struct {
	rows, cols int
	row, col   int
	lines      [][]byte
	ops        []string
}

func newFakeLCD(rows, cols int) *fakeLCD {
	l := &fakeLCD{rows: rows, cols: cols}
	_ = l.Clear()
	l.ops = nil
	return l
}

func (l *fakeLCD) AutoScroll(enabled bool) error              { return display.ErrNotImplemented }
func (l *fakeLCD) Cols() int                                  { return l.cols }
func (l *fakeLCD) Cursor(mode ...display.CursorMode) error    { return nil }
func (l *fakeLCD) Home() error                                { return l.MoveTo(0, 0) }
func (l *fakeLCD) MinCol() int                                { return 0 }
func (l *fakeLCD) MinRow() int                                { return 0 }
func (l *fakeLCD) Move(dir display.CursorDirection) error     { return display.ErrNotImplemented }
func (l *fakeLCD) Rows() int                                  { return l.rows }
func (l *fakeLCD) Display(on bool) error                      { return nil }
func (l *fakeLCD) String() string                             { return "fakeLCD" }
func (l *fakeLCD) WriteString(text string) (n int, err error) { return l.Write([]byte(text)) }

func (l *fakeLCD) Clear() error {
	l.lines = make([][]byte, l.rows)
	for i := range l.lines {
		l.lines[i] = make([]byte, l.cols)
		for j := range l.lines[i] {
			l.lines[i][j] = ' '
		}
	}
	l.row, l.col = 0, 0
	l.ops = append(l.ops, "clear")
	return nil
}

func (l *fakeLCD) MoveTo(row, col int) error {
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		return fmt.Errorf("MoveTo(%d, %d) out of range", row, col)
	}
	l.row, l.col = row, col
	l.ops = append(l.ops, fmt.Sprintf("move %d,%d", row, col))
	return nil
}

func (l *fakeLCD) Write(p []byte) (int, error) {
	for _, c := range p {
		l.lines[l.row][l.col] = c
		l.col++
		if l.col == l.cols {
			l.col = 0
			l.row = (l.row + 1) % l.rows
		}
	}
	l.ops = append(l.ops, fmt.Sprintf("write %q", p))
	return len(p), nil
}

func TestText(t *testing.T) {
	lcd := newFakeLCD(4, 20)
	g := NewText(lcd)
	if got, want := g.Limits(), (touchcal.Limits{CharMaxX: 20, CharMaxY: 4}); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if err := g.SetCursorCell(20, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.DrawChar(touchcal.Target); err != nil {
		t.Fatal(err)
	}
	if err := g.SetCursorCell(1, 4); err != nil {
		t.Fatal(err)
	}
	for _, c := range []byte("ok") {
		if err := g.DrawChar(c); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"move 0,19",
		`write "*"`,
		"move 0,19",
		"move 3,0",
		`write "o"`,
		`write "k"`,
	}
	if diff := cmp.Diff(want, lcd.ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if got := string(lcd.lines[0][19]); got != "*" {
		t.Fatalf("target: %q", got)
	}
	if got := string(lcd.lines[3][:2]); got != "ok" {
		t.Fatalf("text: %q", got)
	}

	lcd.ops = nil
	if err := g.ClearLine(4); err != nil {
		t.Fatal(err)
	}
	if got := string(lcd.lines[3]); got != "                    " {
		t.Fatalf("line not cleared: %q", got)
	}
	// The cursor is restored after the line.
	if lcd.ops[len(lcd.ops)-1] != "move 3,2" {
		t.Fatalf("ops: %v", lcd.ops)
	}

	if err := g.SetCursorCell(21, 1); err == nil {
		t.Fatal("expected error")
	}
	if err := g.ClearLine(5); err == nil {
		t.Fatal("expected error")
	}
	if err := g.Clear(); err != nil {
		t.Fatal(err)
	}
}
