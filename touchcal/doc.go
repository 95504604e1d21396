// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package touchcal maps raw resistive touch panel readings onto the character
// grid of a display, and calibrates the mapping interactively.
//
// A calibration is four raw ADC values, the readings at the left, right, top
// and bottom edges of the usable display area. MapToChar scales a raw reading
// linearly between them and returns the 1-based character cell under the
// pen. Calibrate asks the user to touch two diagonal corner cells and derives
// the bounds from the readings.
//
// Panels are often mounted rotated or mirrored relative to the display. Axes
// describes these cases at runtime.
package touchcal
