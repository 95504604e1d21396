// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touchcal

import "errors"

var (
	// ErrZeroSpan is returned by MapToChar when the calibrated span of an
	// axis is smaller than the number of characters on that axis. This
	// includes uncalibrated bounds.
	ErrZeroSpan = errors.New("touchcal: calibrated span smaller than character grid")
	// ErrNoGrid is returned by MapToChar when a grid dimension is zero.
	ErrNoGrid = errors.New("touchcal: empty character grid")
)

// MapToChar returns the character cell under the raw reading.
//
// The reading is clamped to the bounds first, so the result is always inside
// the grid. Scaling uses integer division of the raw span by the number of
// characters, which makes the last cell slightly wider than the others.
func MapToChar(raw RawSample, b Bounds, l Limits, a Axes) (CharPos, error) {
	raw = a.orient(raw)
	x, err := mapAxis(raw.X, b.XLeft, b.XRight, l.CharMaxX, a.FlipX)
	if err != nil {
		return CharPos{}, err
	}
	y, err := mapAxis(raw.Y, b.YTop, b.YBottom, l.CharMaxY, a.FlipY)
	if err != nil {
		return CharPos{}, err
	}
	return CharPos{X: x, Y: y}, nil
}

// mapAxis scales v from [lo, hi] to [1, n]. When flip is set, hi maps to 1.
func mapAxis(v, lo, hi uint16, n uint8, flip bool) (uint8, error) {
	if n == 0 {
		return 0, ErrNoGrid
	}
	// Raw values are 12 bit, so hi-lo cannot wrap for valid bounds.
	factor := (hi - lo) / uint16(n)
	if factor == 0 {
		return 0, ErrZeroSpan
	}
	if v < lo {
		v = lo
	} else if v > hi {
		v = hi
	}
	var pos uint16
	if flip {
		pos = absDiff(v, hi)
	} else {
		pos = v - lo
	}
	c := int(pos/factor) + 1
	if c > int(n) {
		c = int(n)
	}
	return uint8(c), nil
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
