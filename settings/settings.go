// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package settings persists the touch panel calibration as part of a small
// checksummed settings record, the way the tester keeps its adjustment values
// in EEPROM.
package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/touchgrid/touchcal"
)

// Version is the current record format.
const Version = 1

// RecordSize is the length of a marshaled Record.
const RecordSize = 13

var magic = [2]byte{'T', 'G'}

const (
	flagRotate90 byte = 1 << iota
	flagFlipX
	flagFlipY
)

var (
	// ErrNotFound is returned by Store.Load when nothing was saved yet.
	ErrNotFound = errors.New("settings: no saved settings")
	// ErrChecksum is returned when the stored checksum doesn't match.
	ErrChecksum = errors.New("settings: checksum mismatch")
	// ErrVersion is returned for an unknown magic or format version.
	ErrVersion = errors.New("settings: unsupported record")
)

// Record is the persisted settings block.
type Record struct {
	Bounds touchcal.Bounds
	Axes   touchcal.Axes
}

// Defaults returns the factory settings. The bounds are zero, which makes the
// touch panel ask for a calibration on next start.
func Defaults() Record {
	return Record{}
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Layout: magic "TG", version, axes flags, XLeft, XRight, YTop, YBottom as
// little endian uint16, then a CRC-8 of the preceding bytes.
func (r *Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	copy(b, magic[:])
	b[2] = Version
	if r.Axes.Rotate90 {
		b[3] |= flagRotate90
	}
	if r.Axes.FlipX {
		b[3] |= flagFlipX
	}
	if r.Axes.FlipY {
		b[3] |= flagFlipY
	}
	binary.LittleEndian.PutUint16(b[4:], r.Bounds.XLeft)
	binary.LittleEndian.PutUint16(b[6:], r.Bounds.XRight)
	binary.LittleEndian.PutUint16(b[8:], r.Bounds.YTop)
	binary.LittleEndian.PutUint16(b[10:], r.Bounds.YBottom)
	b[12] = crc8(b[:12])
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != RecordSize {
		return fmt.Errorf("settings: invalid record length %d, expected %d", len(b), RecordSize)
	}
	if b[0] != magic[0] || b[1] != magic[1] || b[2] != Version {
		return fmt.Errorf("%w: magic %q version %d", ErrVersion, b[:2], b[2])
	}
	if got := crc8(b[:12]); got != b[12] {
		return fmt.Errorf("%w: 0x%02x != 0x%02x", ErrChecksum, got, b[12])
	}
	*r = Record{
		Bounds: touchcal.Bounds{
			XLeft:   binary.LittleEndian.Uint16(b[4:]),
			XRight:  binary.LittleEndian.Uint16(b[6:]),
			YTop:    binary.LittleEndian.Uint16(b[8:]),
			YBottom: binary.LittleEndian.Uint16(b[10:]),
		},
		Axes: touchcal.Axes{
			Rotate90: b[3]&flagRotate90 != 0,
			FlipX:    b[3]&flagFlipX != 0,
			FlipY:    b[3]&flagFlipY != 0,
		},
	}
	return nil
}

// Store keeps a Record in a file.
type Store struct {
	Path string
}

// Load returns the saved record.
//
// On any error it also returns Defaults(), so the caller can carry on with
// factory settings.
func (s *Store) Load() (Record, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), ErrNotFound
	}
	if err != nil {
		return Defaults(), fmt.Errorf("settings: %w", err)
	}
	var r Record
	if err := r.UnmarshalBinary(b); err != nil {
		return Defaults(), err
	}
	return r, nil
}

// Save writes r. The file is replaced atomically.
func (s *Store) Save(r Record) error {
	b, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	tmp := f.Name()
	if _, err = f.Write(b); err == nil {
		err = f.Sync()
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp, s.Path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// crc8 is the CRC-8 used by Sensirion and TI sensors: polynomial 0x31,
// initial value 0xff.
func crc8(b []byte) byte {
	crc := byte(0xff)
	for _, v := range b {
		crc ^= v
		for range 8 {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
