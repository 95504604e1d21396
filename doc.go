// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package touchgrid is a container for the touch screen packages of the
// component tester front end.
//
// ads7843 reads the touch controller, touchcal maps and calibrates its
// readings onto the character grid, settings persists the calibration, and
// chargrid and screen2d draw the grid.
package touchgrid
