// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touchcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrAborted is returned by Calibrate when the abort control was used
	// while waiting for a touch.
	ErrAborted = errors.New("touchcal: calibration aborted")
	// ErrInvalidBounds is returned by Calibrate when the corner readings do
	// not increase from left to right and top to bottom.
	ErrInvalidBounds = errors.New("touchcal: invalid calibration bounds")
)

// Target is the character drawn in the cell the user has to touch. Screens
// render it as a crosshair.
const Target byte = 0x01

// Panel is a touch panel controller.
//
// ads7843.Dev implements it.
type Panel interface {
	// PenDown reports if the panel is touched.
	PenDown() bool
	// ReadRawXY returns one averaged raw reading. The pen must be down.
	ReadRawXY() (x, y uint16, err error)
}

// Aborter is polled while waiting for a touch. Returning true cancels the
// calibration.
type Aborter interface {
	Aborted() bool
}

// AborterFunc adapts a function to Aborter.
type AborterFunc func() bool

// Aborted implements Aborter.
func (f AborterFunc) Aborted() bool {
	return f()
}

// PinAborter is an Aborter on an active low push button.
type PinAborter struct {
	Pin gpio.PinIn
}

// Aborted implements Aborter.
func (p PinAborter) Aborted() bool {
	return p.Pin.Read() == gpio.Low
}

// Screen is a character grid display.
type Screen interface {
	// Limits returns the grid size.
	Limits() Limits
	// Clear blanks the whole grid.
	Clear() error
	// SetCursorCell moves the cursor to the 1-based cell.
	SetCursorCell(x, y uint8) error
	// DrawChar draws c at the cursor and advances the cursor by one cell.
	DrawChar(c byte) error
	// ClearLine blanks row y.
	ClearLine(y uint8) error
}

// State is a step of the calibration procedure.
type State int

// Calibration states.
const (
	Idle State = iota
	AwaitCorner1
	AwaitCorner2
	Validate
	Done
	Retry
	Failed
)

var stateNames = [...]string{"Idle", "AwaitCorner1", "AwaitCorner2", "Validate", "Done", "Retry", "Failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// DefaultCalibrateOpts is the recommended default options.
var DefaultCalibrateOpts = CalibrateOpts{
	PollInterval: 30 * time.Millisecond,
	Attempts:     3,
	Prompt:       "Touch the marker",
	Marker:       Target,
}

// CalibrateOpts defines the options for Calibrate.
type CalibrateOpts struct {
	// PollInterval is the delay between two checks of the pen and the abort
	// control.
	PollInterval time.Duration
	// Attempts is the maximum number of two-corner rounds.
	Attempts int
	// Prompt is shown on the middle row while waiting for a touch.
	Prompt string
	// Marker is drawn in the target cell.
	Marker byte
	// OnState is called on each state transition. It may be nil.
	OnState func(s State, attempt int)

	_ struct{}
}

// Calibrate asks the user to touch the top right and the bottom left cells
// of the screen and derives the bounds from the raw readings.
//
// cal.Limits is set to scr.Limits(). The round is repeated up to
// opts.Attempts times while the readings taken with the current bounds don't
// land exactly on the target cells, each round starting from the bounds
// derived by the previous one. Running out of attempts is not an error, the
// latest bounds are kept.
//
// New bounds are only written to cal.Bounds once they pass validation. It
// returns ErrAborted, ErrInvalidBounds, a panel error or ctx.Err().
func Calibrate(ctx context.Context, p Panel, abort Aborter, scr Screen, cal *Calibration, opts *CalibrateOpts) error {
	if opts == nil {
		opts = &DefaultCalibrateOpts
	}
	c := &calibrator{p: p, abort: abort, scr: scr, cal: cal, opts: *opts}
	if c.opts.PollInterval <= 0 {
		c.opts.PollInterval = DefaultCalibrateOpts.PollInterval
	}
	if c.opts.Attempts <= 0 {
		c.opts.Attempts = DefaultCalibrateOpts.Attempts
	}
	if c.opts.Marker == 0 {
		c.opts.Marker = Target
	}
	cal.Limits = scr.Limits()
	if cal.Limits.CharMaxX == 0 || cal.Limits.CharMaxY == 0 {
		return ErrNoGrid
	}
	return c.run(ctx)
}

type calibrator struct {
	p     Panel
	abort Aborter
	scr   Screen
	cal   *Calibration
	opts  CalibrateOpts

	attempt int
}

func (c *calibrator) set(s State) {
	if c.opts.OnState != nil {
		c.opts.OnState(s, c.attempt)
	}
}

func (c *calibrator) run(ctx context.Context) error {
	l := c.cal.Limits
	a := c.cal.Axes
	topRight := CharPos{X: l.CharMaxX, Y: 1}
	bottomLeft := CharPos{X: 1, Y: l.CharMaxY}
	c.set(Idle)
	for c.attempt = 1; ; c.attempt++ {
		next := c.cal.Bounds

		c.set(AwaitCorner1)
		r, hit1, err := c.corner(ctx, topRight)
		if err != nil {
			c.set(Failed)
			return err
		}
		if a.FlipX {
			next.XLeft = r.X
		} else {
			next.XRight = r.X
		}
		if a.FlipY {
			next.YBottom = r.Y
		} else {
			next.YTop = r.Y
		}

		c.set(AwaitCorner2)
		r, hit2, err := c.corner(ctx, bottomLeft)
		if err != nil {
			c.set(Failed)
			return err
		}
		if a.FlipX {
			next.XRight = r.X
		} else {
			next.XLeft = r.X
		}
		if a.FlipY {
			next.YTop = r.Y
		} else {
			next.YBottom = r.Y
		}

		c.set(Validate)
		if !next.Valid() {
			c.set(Failed)
			return fmt.Errorf("%w: %s", ErrInvalidBounds, next)
		}
		c.cal.Bounds = next
		if (hit1 && hit2) || c.attempt >= c.opts.Attempts {
			c.set(Done)
			return c.scr.Clear()
		}
		c.set(Retry)
	}
}

// corner shows the marker at target and waits for a touch. It returns the
// reading in display orientation and whether it maps onto target with the
// bounds in use for this attempt.
func (c *calibrator) corner(ctx context.Context, target CharPos) (RawSample, bool, error) {
	if err := c.prompt(target, c.opts.Marker); err != nil {
		return RawSample{}, false, err
	}
	raw, err := c.wait(ctx)
	if err != nil {
		return RawSample{}, false, err
	}
	if err := c.mark(target, ' '); err != nil {
		return RawSample{}, false, err
	}
	// Uncalibrated bounds fail to map; that counts as a miss.
	pos, err := c.cal.Map(raw)
	hit := err == nil && pos == target
	return c.cal.Axes.orient(raw), hit, nil
}

func (c *calibrator) prompt(target CharPos, marker byte) error {
	if err := c.scr.Clear(); err != nil {
		return err
	}
	l := c.cal.Limits
	// The marker is drawn last so it wins on tiny grids.
	row := (l.CharMaxY + 1) / 2
	text := c.opts.Prompt
	if len(text) > int(l.CharMaxX) {
		text = text[:l.CharMaxX]
	}
	if text != "" {
		if err := c.scr.SetCursorCell(uint8((int(l.CharMaxX)-len(text))/2+1), row); err != nil {
			return err
		}
		for i := 0; i < len(text); i++ {
			if err := c.scr.DrawChar(text[i]); err != nil {
				return err
			}
		}
	}
	return c.mark(target, marker)
}

func (c *calibrator) mark(target CharPos, ch byte) error {
	if err := c.scr.SetCursorCell(target.X, target.Y); err != nil {
		return err
	}
	return c.scr.DrawChar(ch)
}

// wait polls until the pen is down, reads it, then waits for the pen to be
// lifted so the next corner gets a fresh touch.
func (c *calibrator) wait(ctx context.Context) (RawSample, error) {
	t := time.NewTicker(c.opts.PollInterval)
	defer t.Stop()
	if err := c.poll(ctx, t, true); err != nil {
		return RawSample{}, err
	}
	x, y, err := c.p.ReadRawXY()
	if err != nil {
		return RawSample{}, err
	}
	if err := c.poll(ctx, t, false); err != nil {
		return RawSample{}, err
	}
	return RawSample{X: x, Y: y}, nil
}

// poll returns once PenDown() reports down. The abort control is checked on
// every tick, also while waiting for the pen to be lifted.
func (c *calibrator) poll(ctx context.Context, t *time.Ticker, down bool) error {
	for {
		if c.abort != nil && c.abort.Aborted() {
			return ErrAborted
		}
		if c.p.PenDown() == down {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
