// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touchcal

import (
	"context"
	"fmt"
)

// Key is the virtual key a touch stands for.
type Key int

// Touch keys.
const (
	KeyNone Key = iota
	KeyPress
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyPress:
		return "Press"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// barWidth is the width in characters of the left and right touch bars.
const barWidth = 3

// KeyAt returns the key for a touch at pos. The three leftmost and rightmost
// columns act as left and right keys, the rest of the screen as a press.
func KeyAt(pos CharPos, l Limits) Key {
	if pos.X == 0 || pos.Y == 0 {
		return KeyNone
	}
	// Keep at least one column for the press area.
	if l.CharMaxX <= 2*barWidth {
		return KeyPress
	}
	switch {
	case pos.X <= barWidth:
		return KeyLeft
	case pos.X > l.CharMaxX-barWidth:
		return KeyRight
	default:
		return KeyPress
	}
}

// Touch converts touches on a panel into character cells.
type Touch struct {
	Panel Panel
	Cal   *Calibration
}

// Check returns the cell under the pen. ok is false when the panel is not
// touched.
func (t *Touch) Check() (pos CharPos, ok bool, err error) {
	if !t.Panel.PenDown() {
		return CharPos{}, false, nil
	}
	x, y, err := t.Panel.ReadRawXY()
	if err != nil {
		return CharPos{}, false, err
	}
	pos, err = t.Cal.Map(RawSample{X: x, Y: y})
	if err != nil {
		return CharPos{}, false, err
	}
	return pos, true, nil
}

// Key returns the key for the current touch, or KeyNone.
func (t *Touch) Key() (Key, error) {
	pos, ok, err := t.Check()
	if err != nil || !ok {
		return KeyNone, err
	}
	return KeyAt(pos, t.Cal.Limits), nil
}

// Init runs Calibrate when the bounds were never set, as after a factory
// reset. Otherwise it only refreshes the grid size from scr.
func (t *Touch) Init(ctx context.Context, abort Aborter, scr Screen, opts *CalibrateOpts) error {
	if t.Cal.Bounds.IsCalibrated() {
		t.Cal.Limits = scr.Limits()
		return nil
	}
	return Calibrate(ctx, t.Panel, abort, scr, t.Cal, opts)
}
