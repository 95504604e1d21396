// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// touchcal calibrates an ADS7843 touch panel and reports touches as character
// cells.
//
// The character grid is shown on the terminal, so it can be used on the bench
// with only the panel wired.
//
// Usage:
//
//	touchcal [flags] calibrate|watch|show
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/touchgrid/ads7843"
	"github.com/GermanBionicSystems/touchgrid/chargrid"
	"github.com/GermanBionicSystems/touchgrid/screen2d"
	"github.com/GermanBionicSystems/touchgrid/settings"
	"github.com/GermanBionicSystems/touchgrid/touchcal"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	spiName := flag.String("spi", "", "SPI port to use")
	hz := physic.Frequency(0)
	flag.Var(&hz, "hz", "SPI port max speed")
	penName := flag.String("penirq", "GPIO17", "PENIRQ pin")
	abortName := flag.String("abort", "", "optional active low button that aborts the calibration")
	path := flag.String("settings", "touchcal.bin", "settings file")
	rotate := flag.Bool("rotate", false, "panel is rotated by 90° (calibrate only)")
	flipX := flag.Bool("flipx", false, "panel X axis is mirrored (calibrate only)")
	flipY := flag.Bool("flipy", false, "panel Y axis is mirrored (calibrate only)")
	w := flag.Int("w", 112, "emulated display width in pixels")
	h := flag.Int("h", 52, "emulated display height in pixels")
	ttf := flag.Float64("ttf", 0, "use Go Regular at this size instead of the 7x13 bitmap font")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	if flag.NArg() != 1 {
		return errors.New("specify one of calibrate, watch or show")
	}
	cmd := flag.Arg(0)

	store := &settings.Store{Path: *path}
	rec, err := store.Load()
	switch {
	case errors.Is(err, settings.ErrNotFound):
		log.Printf("%s: using factory settings", *path)
	case err != nil:
		// Same as a checksum failure in EEPROM: start over from defaults.
		fmt.Fprintf(os.Stderr, "touchcal: %v; using factory settings\n", err)
	}
	if cmd == "show" {
		fmt.Printf("%s calibrated=%t %+v\n", rec.Bounds, rec.Bounds.IsCalibrated(), rec.Axes)
		return nil
	}
	if cmd != "calibrate" && cmd != "watch" {
		return fmt.Errorf("unknown command %q", cmd)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	p, err := spireg.Open(*spiName)
	if err != nil {
		return err
	}
	defer p.Close()
	pen := gpioreg.ByName(*penName)
	if pen == nil {
		return fmt.Errorf("invalid PENIRQ pin %q", *penName)
	}
	panel, err := ads7843.New(p, pen, &ads7843.Opts{MaxSpeed: hz})
	if err != nil {
		return err
	}
	defer panel.Halt()
	log.Printf("using %s", panel)

	var abort touchcal.Aborter
	if *abortName != "" {
		b := gpioreg.ByName(*abortName)
		if b == nil {
			return fmt.Errorf("invalid abort pin %q", *abortName)
		}
		abort = touchcal.PinAborter{Pin: b}
	}

	opts := chargrid.DefaultOpts
	if *ttf > 0 {
		if opts.Face, err = chargrid.NewTrueTypeFace(*ttf); err != nil {
			return err
		}
	}
	term := screen2d.New(&screen2d.Opts{X: *w, Y: *h})
	defer term.Halt()
	scr, err := chargrid.New(term, &opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cal := &touchcal.Calibration{Bounds: rec.Bounds, Axes: rec.Axes}
	t := &touchcal.Touch{Panel: panel, Cal: cal}
	if cmd == "calibrate" {
		cal.SetAxes(touchcal.Axes{Rotate90: *rotate, FlipX: *flipX, FlipY: *flipY})
		err = touchcal.Calibrate(ctx, panel, abort, scr, cal, nil)
	} else {
		err = t.Init(ctx, abort, scr, nil)
	}
	if err != nil {
		showError(scr, err)
		return err
	}
	if cmd == "calibrate" || !rec.Bounds.IsCalibrated() {
		if err := store.Save(settings.Record{Bounds: cal.Bounds, Axes: cal.Axes}); err != nil {
			return err
		}
		log.Printf("saved %s to %s", cal.Bounds, *path)
	}
	if cmd == "calibrate" {
		return nil
	}
	return watch(ctx, panel, t, scr)
}

// watch marks each touched cell until interrupted.
func watch(ctx context.Context, panel *ads7843.Dev, t *touchcal.Touch, scr touchcal.Screen) error {
	if err := scr.Clear(); err != nil {
		return err
	}
	for ctx.Err() == nil {
		if !panel.WaitPenDown(100 * time.Millisecond) {
			continue
		}
		pos, ok, err := t.Check()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		k := touchcal.KeyAt(pos, t.Cal.Limits)
		log.Printf("cell %d,%d key %s", pos.X, pos.Y, k)
		if err := scr.SetCursorCell(pos.X, pos.Y); err != nil {
			return err
		}
		if err := scr.DrawChar(k.String()[0]); err != nil {
			return err
		}
		time.Sleep(30 * time.Millisecond)
	}
	return nil
}

// showError writes a short message on the first line, like the tester does
// before going back to its menu.
func showError(scr touchcal.Screen, err error) {
	msg := "Error"
	if errors.Is(err, touchcal.ErrAborted) {
		msg = "Aborted"
	}
	if scr.ClearLine(1) != nil || scr.SetCursorCell(1, 1) != nil {
		return
	}
	for i := 0; i < len(msg) && i < int(scr.Limits().CharMaxX); i++ {
		if scr.DrawChar(msg[i]) != nil {
			return
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "touchcal: %s.\n", err)
		os.Exit(1)
	}
}
