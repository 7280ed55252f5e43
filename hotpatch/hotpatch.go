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

// Package hotpatch applies an in-place binary edit to the installed
// bootloader, overwriting the conditional branch which allows unsigned
// firmware to execute with inert instructions.
package hotpatch

import "bytes"

// PatchTarget is the absolute flash address of the conditional branch
// neutralized by the patch. Fixed for this hardware and bootloader
// generation, never derived from runtime input.
const PatchTarget = 0x0802026c

// payload is nine Thumb `movs r0, r0` halfwords. Replacing the branch with
// same-size inert instructions leaves every other instruction address in
// the bootloader untouched.
var payload = [18]byte{
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
	0x00, 0x00, // movs r0, r0
}

// Payload returns a copy of the patch byte sequence.
func Payload() []byte {
	return append([]byte(nil), payload[:]...)
}

// Flash abstracts the flash controller operations driven by the patch
// sequence, allowing substitutions for testing.
//
// All operations are fire-and-forget: controllers are known to latch
// spurious errors when programming a value the target already holds, so
// their error reporting is deliberately not consulted. The read-back
// comparison in Apply is the sole success signal.
type Flash interface {
	// Unlock lifts the controller's write lock.
	Unlock()
	// Program writes buf at the given absolute flash address.
	Program(addr uint32, buf []byte)
	// Lock re-engages the controller's write lock.
	Lock()
	// ClearStatus clears any error or status flags the controller
	// raised while programming.
	ClearStatus()
	// Read returns n bytes at the given absolute flash address.
	Read(addr uint32, n int) []byte
}

// Memory guards the protected region containing the patch target.
type Memory interface {
	// Unlock lifts the write protection of the patch region. Idempotent.
	Unlock()
}

// Patcher performs the guarded write of the patch sequence. Only one
// Patcher invocation is ever in flight: it runs synchronously during early
// boot, before any scheduler or interrupt-driven subsystem is active.
type Patcher struct {
	Flash  Flash
	Memory Memory
}

// Apply overwrites the instructions at PatchTarget with the patch payload
// and reports whether the patch is verifiably in effect.
//
// The sequence is fixed: lift region protection, unlock the controller,
// program, relock unconditionally, clear latched status flags, then read
// back and compare. Applying an already applied patch writes the same
// bytes to the same target and succeeds, so retrying is safe. A false
// return means the bootloader cannot be trusted to reject unsigned
// firmware; there is no rollback.
func (p *Patcher) Apply() bool {
	p.Memory.Unlock()
	p.Flash.Unlock()

	p.Flash.Program(PatchTarget, payload[:])

	p.Flash.Lock()

	// A programming attempt against an already-correct target can leave
	// the controller latched in an error state, clear it so subsequent
	// flash operations are not blocked.
	p.Flash.ClearStatus()

	return bytes.Equal(p.Flash.Read(PatchTarget, len(payload)), payload[:])
}
