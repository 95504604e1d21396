// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ads7843 controls an ADS7843 resistive touch screen controller, and
// the pin compatible XPT2046, over SPI.
//
// The controller is a 12 bit successive approximation ADC with a built-in
// touch panel driver. Each conversion is started by a control byte and the
// result is clocked out on the two following bytes. A touch is signalled by
// the active low PENIRQ output, which is only enabled while the converter is
// in its low power mode.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/ads7843.pdf
package ads7843
