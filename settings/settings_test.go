// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/touchgrid/touchcal"
	"github.com/google/go-cmp/cmp"
)

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		// Sensirion datasheet example.
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
	}
	for _, test := range tests {
		if res := crc8(test.bytes); res != test.result {
			t.Errorf("crc8(%#v) = 0x%02x, want 0x%02x", test.bytes, res, test.result)
		}
	}
}

func TestRecord_layout(t *testing.T) {
	r := Record{
		Bounds: touchcal.Bounds{XLeft: 0x0102, XRight: 0x0304, YTop: 0x0506, YBottom: 0x0708},
		Axes:   touchcal.Axes{FlipX: true, FlipY: true},
	}
	b, err := r.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'T', 'G', Version, 0x06, 0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x08, 0x07}
	if diff := cmp.Diff(want, b[:12]); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	if b[12] != crc8(want) {
		t.Fatalf("checksum 0x%02x", b[12])
	}
	var got Record
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Fatalf("Record mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_corrupt(t *testing.T) {
	r := Record{Bounds: touchcal.Bounds{XLeft: 200, XRight: 3800, YTop: 150, YBottom: 3900}}
	b, _ := r.MarshalBinary()

	flipped := append([]byte(nil), b...)
	flipped[5] ^= 0x10
	var got Record
	if err := got.UnmarshalBinary(flipped); !errors.Is(err, ErrChecksum) {
		t.Errorf("got %v, want ErrChecksum", err)
	}

	old := append([]byte(nil), b...)
	old[2] = 0
	if err := got.UnmarshalBinary(old); !errors.Is(err, ErrVersion) {
		t.Errorf("got %v, want ErrVersion", err)
	}

	if err := got.UnmarshalBinary(b[:4]); err == nil {
		t.Error("expected length error")
	}
}

func TestStore(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "touch.bin")}
	r, err := s.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if r.Bounds.IsCalibrated() {
		t.Fatal("defaults must be uncalibrated")
	}

	want := Record{
		Bounds: touchcal.Bounds{XLeft: 200, XRight: 3800, YTop: 150, YBottom: 3900},
		Axes:   touchcal.Axes{Rotate90: true},
	}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Record mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %d entries", len(entries))
	}

	if err := os.WriteFile(s.Path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Load(); err == nil || got.Bounds.IsCalibrated() {
		t.Fatalf("Load() = %v, %v; expected defaults and an error", got, err)
	}
}
