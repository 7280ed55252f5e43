// Copyright 2026 The Boot Gate authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testonly provides support for hotpatch tests.
package testonly

import (
	"bytes"
	"testing"
)

// Flash controller status flags modelled by MemFlash.
const (
	// StatusWriteProtect is latched when programming is attempted while
	// the write lock is engaged.
	StatusWriteProtect uint32 = 1 << 4
	// StatusProgramError is latched when programming a value the target
	// already holds, mirroring controllers which report spurious errors
	// on idempotent writes even though the data is correct.
	StatusProgramError uint32 = 1 << 7
)

// MemFlash is a simple in-memory flash device implementing the
// hotpatch.Flash interface.
//
// It models the lock state and latched status flags of a real controller:
// programming while locked is ignored and latches StatusWriteProtect,
// programming an already-correct target latches StatusProgramError but
// still leaves the data correct.
type MemFlash struct {
	// Base is the absolute flash address of Mem[0].
	Base uint32
	// Mem holds the device contents.
	Mem []byte
	// Locked is the controller write lock state. Devices power up locked.
	Locked bool
	// Status holds the latched status flags.
	Status uint32
	// Programs counts Program invocations, including refused ones.
	Programs int

	// OnRead is called with the bytes about to be returned by Read,
	// letting tests inject read-back mismatches.
	OnRead func(addr uint32, buf []byte)
}

// NewMemFlash creates a locked in-memory flash device of the given size.
func NewMemFlash(t *testing.T, base uint32, size int) *MemFlash {
	t.Helper()
	return &MemFlash{
		Base:   base,
		Mem:    make([]byte, size),
		Locked: true,
	}
}

// Unlock lifts the write lock.
func (f *MemFlash) Unlock() {
	f.Locked = false
}

// Lock re-engages the write lock.
func (f *MemFlash) Lock() {
	f.Locked = true
}

// ClearStatus clears the latched status flags.
func (f *MemFlash) ClearStatus() {
	f.Status = 0
}

// Program writes buf at the given absolute flash address. Writes while
// locked or out of range are refused and latch StatusWriteProtect.
func (f *MemFlash) Program(addr uint32, buf []byte) {
	f.Programs++

	off := int(addr - f.Base)
	if f.Locked || off < 0 || off+len(buf) > len(f.Mem) {
		f.Status |= StatusWriteProtect
		return
	}

	if bytes.Equal(f.Mem[off:off+len(buf)], buf) {
		f.Status |= StatusProgramError
		return
	}

	copy(f.Mem[off:], buf)
}

// Read returns n bytes at the given absolute flash address.
func (f *MemFlash) Read(addr uint32, n int) []byte {
	buf := make([]byte, n)

	if off := int(addr - f.Base); off >= 0 && off+n <= len(f.Mem) {
		copy(buf, f.Mem[off:])
	}

	if f.OnRead != nil {
		f.OnRead(addr, buf)
	}

	return buf
}

// MemGuard is an in-memory stand-in for the region write protection
// collaborator, counting how often protection was lifted.
type MemGuard struct {
	Lifts int
}

// Unlock lifts the region protection.
func (g *MemGuard) Unlock() {
	g.Lifts++
}
