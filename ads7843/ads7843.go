// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads7843

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Control byte layout: S A2 A1 A0 MODE SER/DFR PD1 PD0.
const (
	ctrlStart    byte = 0x80
	ctrlChanX    byte = 0x50 // A2-A0 = 101
	ctrlChanY    byte = 0x10 // A2-A0 = 001
	ctrlMode8Bit byte = 0x08
	ctrlSingle   byte = 0x04
	ctrlPowerOn  byte = 0x03 // PD1-PD0 = 11, reference and ADC always on.
	ctrlPowerLow byte = 0x00 // PD1-PD0 = 00, PENIRQ enabled between conversions.
)

// Commands issued by this driver. Conversions are 12 bit and use the
// differential (ratiometric) reference.
const (
	// CmdX converts the X position with the converter kept powered.
	CmdX = ctrlStart | ctrlChanX | ctrlPowerOn
	// CmdY converts the Y position with the converter kept powered.
	CmdY = ctrlStart | ctrlChanY | ctrlPowerOn
	// CmdRearm is a dummy Y conversion that leaves the chip in low power mode,
	// which enables PENIRQ again.
	CmdRearm = ctrlStart | ctrlChanY | ctrlPowerLow
)

// samples is the number of conversions averaged per axis.
const samples = 4

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	MaxSpeed: 2 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	// MaxSpeed is the SPI clock. The ADS7843 converts at up to 125kHz
	// throughput, which is 2MHz of clock with 16 clocks per conversion.
	MaxSpeed physic.Frequency

	_ struct{}
}

// Dev is an open handle to an ADS7843 touch controller.
type Dev struct {
	c     spi.Conn
	irq   gpio.PinIn
	edges bool
}

// New returns a Dev that communicates over SPI with an ADS7843.
//
// penIRQ is the active low pen interrupt output of the chip. It is configured
// as an input with pull up. When the pin supports edge detection, WaitPenDown
// blocks on the falling edge, otherwise it polls.
func New(p spi.Port, penIRQ gpio.PinIn, opts *Opts) (*Dev, error) {
	if penIRQ == nil || penIRQ == gpio.INVALID {
		return nil, errors.New("ads7843: a PENIRQ pin is required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	f := opts.MaxSpeed
	if f == 0 {
		f = DefaultOpts.MaxSpeed
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ads7843: %w", err)
	}
	d := &Dev{c: c, irq: penIRQ}
	if err := penIRQ.In(gpio.PullUp, gpio.FallingEdge); err == nil {
		d.edges = true
	} else if err := penIRQ.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("ads7843: %w", err)
	}
	// Start in low power mode so PENIRQ works right away.
	if _, err := d.Transfer(CmdRearm); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ADS7843{%s, %s}", d.c, d.irq)
}

// Halt implements conn.Resource.
//
// It puts the converter back in low power mode.
func (d *Dev) Halt() error {
	_, err := d.Transfer(CmdRearm)
	return err
}

// Transfer sends a control byte and returns the 12 bit result of the
// conversion it started.
//
// The result is right justified. The first byte clocked in after the control
// byte holds the busy bit followed by bits 11-5, the second byte holds bits
// 4-0 followed by three padding bits.
func (d *Dev) Transfer(cmd byte) (uint16, error) {
	var r [3]byte
	if err := d.c.Tx([]byte{cmd, 0, 0}, r[:]); err != nil {
		return 0, fmt.Errorf("ads7843: %w", err)
	}
	return (uint16(r[1])<<5 | uint16(r[2])>>3) & 0x0FFF, nil
}

// ReadRawXY returns the raw X and Y position, each averaged over four
// conversions.
//
// The pen must be down, see PenDown. The result is meaningless otherwise.
func (d *Dev) ReadRawXY() (x, y uint16, err error) {
	if x, err = d.average(CmdX); err != nil {
		return 0, 0, err
	}
	if y, err = d.average(CmdY); err != nil {
		return 0, 0, err
	}
	// Conversion result is discarded, this only re-enables PENIRQ.
	if _, err = d.Transfer(CmdRearm); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// PenDown reports if the panel is currently touched.
func (d *Dev) PenDown() bool {
	return d.irq.Read() == gpio.Low
}

// WaitPenDown blocks until the panel is touched or timeout expires. It
// returns true if the panel is touched.
//
// A negative timeout waits forever.
func (d *Dev) WaitPenDown(timeout time.Duration) bool {
	if d.PenDown() {
		return true
	}
	if d.edges {
		return d.irq.WaitForEdge(timeout) && d.PenDown()
	}
	const poll = 10 * time.Millisecond
	start := time.Now()
	for timeout < 0 || time.Since(start) < timeout {
		time.Sleep(poll)
		if d.PenDown() {
			return true
		}
	}
	return false
}

func (d *Dev) average(cmd byte) (uint16, error) {
	// 4 * 4095 fits in an uint16.
	var sum uint16
	for range samples {
		v, err := d.Transfer(cmd)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / samples, nil
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
