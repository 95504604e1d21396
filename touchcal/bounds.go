// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touchcal

import "fmt"

// RawSample is an averaged 12 bit reading of both panel axes.
type RawSample struct {
	X, Y uint16
}

// Bounds holds the raw readings matching the edges of the display.
//
// The values are in display orientation: when the panel is rotated, XLeft and
// XRight hold readings of the panel's Y axis.
//
// The zero value means the panel was never calibrated.
type Bounds struct {
	XLeft, XRight uint16
	YTop, YBottom uint16
}

// IsCalibrated returns false for the all zero "never calibrated" bounds.
func (b Bounds) IsCalibrated() bool {
	return b != Bounds{}
}

// Valid reports if both axes increase from left to right and top to bottom.
func (b Bounds) Valid() bool {
	return b.XRight > b.XLeft && b.YBottom > b.YTop
}

func (b Bounds) String() string {
	return fmt.Sprintf("Bounds{x:%d-%d, y:%d-%d}", b.XLeft, b.XRight, b.YTop, b.YBottom)
}

// CharPos is a 1-based character cell.
type CharPos struct {
	X, Y uint8
}

// Limits is the size of the character grid of the display.
type Limits struct {
	CharMaxX, CharMaxY uint8
}

// Axes describes how the panel is mounted relative to the display.
type Axes struct {
	// Rotate90 swaps the panel axes: the panel's Y axis runs along the
	// display's horizontal axis.
	Rotate90 bool
	// FlipX is set when raw readings decrease from left to right.
	FlipX bool
	// FlipY is set when raw readings decrease from top to bottom.
	FlipY bool
}

// orient returns raw in display orientation.
func (a Axes) orient(raw RawSample) RawSample {
	if a.Rotate90 {
		return RawSample{X: raw.Y, Y: raw.X}
	}
	return raw
}

// Calibration is the state shared by the touch check and the calibration
// procedure.
type Calibration struct {
	Bounds Bounds
	Limits Limits
	Axes   Axes
}

// SetAxes changes the panel mounting. Bounds captured with other axes don't
// describe the new orientation, so they are reset to uncalibrated.
func (c *Calibration) SetAxes(a Axes) {
	if a != c.Axes {
		c.Bounds = Bounds{}
	}
	c.Axes = a
}

// Map returns the character cell for raw with the current bounds.
func (c *Calibration) Map(raw RawSample) (CharPos, error) {
	return MapToChar(raw, c.Bounds, c.Limits, c.Axes)
}
