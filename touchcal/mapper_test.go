// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touchcal

import (
	"errors"
	"testing"
)

var (
	testBounds = Bounds{XLeft: 200, XRight: 3800, YTop: 150, YBottom: 3900}
	testLimits = Limits{CharMaxX: 20, CharMaxY: 10}
)

func TestMapToChar(t *testing.T) {
	data := []struct {
		name string
		raw  RawSample
		a    Axes
		want CharPos
	}{
		// factor x = 3600/20 = 180, factor y = 3750/10 = 375.
		{"midpoint", RawSample{2000, 2025}, Axes{}, CharPos{11, 6}},
		{"top left", RawSample{200, 150}, Axes{}, CharPos{1, 1}},
		{"bottom right", RawSample{3800, 3900}, Axes{}, CharPos{20, 10}},
		{"below range", RawSample{0, 0}, Axes{}, CharPos{1, 1}},
		{"above range", RawSample{4095, 4095}, Axes{}, CharPos{20, 10}},
		{"last cell start", RawSample{200 + 19*180, 150 + 9*375}, Axes{}, CharPos{20, 10}},
		{"one before last cell", RawSample{200 + 19*180 - 1, 150 + 9*375 - 1}, Axes{}, CharPos{19, 9}},
		{"flip x left edge", RawSample{3800, 150}, Axes{FlipX: true}, CharPos{1, 1}},
		{"flip x right edge", RawSample{200, 150}, Axes{FlipX: true}, CharPos{20, 1}},
		{"flip y", RawSample{200, 3900}, Axes{FlipY: true}, CharPos{1, 1}},
		{"flip both midpoint", RawSample{2000, 2025}, Axes{FlipX: true, FlipY: true}, CharPos{11, 6}},
		{"rotate", RawSample{150, 3800}, Axes{Rotate90: true}, CharPos{20, 1}},
		{"rotate flip", RawSample{150, 3800}, Axes{Rotate90: true, FlipX: true}, CharPos{1, 1}},
		{"flip both corner", RawSample{200, 3900}, Axes{FlipX: true, FlipY: true}, CharPos{20, 1}},
		{"rotate flip y", RawSample{3900, 3800}, Axes{Rotate90: true, FlipY: true}, CharPos{20, 1}},
		{"rotate flip y bottom", RawSample{150, 200}, Axes{Rotate90: true, FlipY: true}, CharPos{1, 10}},
		{"rotate flip both", RawSample{3900, 200}, Axes{Rotate90: true, FlipX: true, FlipY: true}, CharPos{20, 1}},
		{"rotate flip both midpoint", RawSample{2025, 2000}, Axes{Rotate90: true, FlipX: true, FlipY: true}, CharPos{11, 6}},
	}
	for _, line := range data {
		got, err := MapToChar(line.raw, testBounds, testLimits, line.a)
		if err != nil {
			t.Fatalf("%s: %v", line.name, err)
		}
		if got != line.want {
			t.Errorf("%s: got %v, want %v", line.name, got, line.want)
		}
	}
}

func TestMapToChar_zeroSpan(t *testing.T) {
	data := []Bounds{
		{},
		{XLeft: 100, XRight: 119, YTop: 0, YBottom: 4000},
		{XLeft: 0, XRight: 4000, YTop: 100, YBottom: 109},
	}
	for i, b := range data {
		if _, err := MapToChar(RawSample{110, 105}, b, testLimits, Axes{}); !errors.Is(err, ErrZeroSpan) {
			t.Errorf("#%d: got %v, want ErrZeroSpan", i, err)
		}
	}
	if _, err := MapToChar(RawSample{}, testBounds, Limits{CharMaxX: 20}, Axes{}); !errors.Is(err, ErrNoGrid) {
		t.Errorf("got %v, want ErrNoGrid", err)
	}
}

// The flipped axis is the mirror image of the normal one.
func TestMapToChar_flipIsMirror(t *testing.T) {
	for v := uint16(0); v < 4096; v++ {
		var mirrored uint16
		switch {
		case v < testBounds.XLeft:
			mirrored = testBounds.XRight
		case v > testBounds.XRight:
			mirrored = testBounds.XLeft
		default:
			mirrored = testBounds.XLeft + testBounds.XRight - v
		}
		got, err := MapToChar(RawSample{v, 150}, testBounds, testLimits, Axes{FlipX: true})
		if err != nil {
			t.Fatal(err)
		}
		want, err := MapToChar(RawSample{mirrored, 150}, testBounds, testLimits, Axes{})
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("raw %d: got %v, want %v", v, got, want)
		}
	}
}

func TestMapToChar_properties(t *testing.T) {
	var prev CharPos
	for v := uint16(0); v < 4096; v++ {
		raw := RawSample{v, v}
		got, err := MapToChar(raw, testBounds, testLimits, Axes{})
		if err != nil {
			t.Fatal(err)
		}
		if got.X < 1 || got.X > testLimits.CharMaxX || got.Y < 1 || got.Y > testLimits.CharMaxY {
			t.Fatalf("raw %d: %v outside the grid", v, got)
		}
		if got.X < prev.X || got.Y < prev.Y {
			t.Fatalf("raw %d: %v decreased from %v", v, got, prev)
		}
		again, _ := MapToChar(raw, testBounds, testLimits, Axes{})
		if again != got {
			t.Fatalf("raw %d: not deterministic: %v != %v", v, again, got)
		}
		prev = got
	}
}
