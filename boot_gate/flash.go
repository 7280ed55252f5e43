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

package main

import (
	"encoding/binary"

	"github.com/usbarmory/tamago/bits"
)

// Flash interface register block (STM32F2 series, RM0033).
const (
	FLASH_KEYR    = 0x40023c04
	FLASH_OPTKEYR = 0x40023c08
	FLASH_SR      = 0x40023c0c
	FLASH_CR      = 0x40023c10
	FLASH_OPTCR   = 0x40023c14

	// CR unlock sequence
	FLASH_KEY1 = 0x45670123
	FLASH_KEY2 = 0xcdef89ab

	// OPTCR unlock sequence
	FLASH_OPTKEY1 = 0x08192a3b
	FLASH_OPTKEY2 = 0x4c5d6e7f

	CR_PG    = 0
	CR_PSIZE = 8
	CR_LOCK  = 31

	// x16 programming parallelism
	PSIZE_X16 = 0b01

	SR_BSY = 16

	// write-1-to-clear status and error flags
	SR_EOP    = 0
	SR_OPERR  = 1
	SR_WRPERR = 4
	SR_PGAERR = 5
	SR_PGPERR = 6
	SR_PGSERR = 7

	OPTCR_OPTLOCK = 0
	OPTCR_OPTSTRT = 1
	OPTCR_NWRP    = 16
)

// The bootloader occupies two 128 KB sectors, the patch target lies in the
// first of them.
const (
	bootSectorFirst = 5
	bootSectorLast  = 6
)

// flashCtl drives the embedded flash controller, implementing the
// hotpatch.Flash interface.
type flashCtl struct{}

// Unlock lifts the controller write lock with the CR key sequence.
func (flashCtl) Unlock() {
	write32(FLASH_KEYR, FLASH_KEY1)
	write32(FLASH_KEYR, FLASH_KEY2)
}

// Lock re-engages the controller write lock.
func (flashCtl) Lock() {
	cr := read32(FLASH_CR)
	bits.Set(&cr, CR_LOCK)
	write32(FLASH_CR, cr)
}

// ClearStatus clears all latched status and error flags.
func (flashCtl) ClearStatus() {
	var sr uint32

	for _, pos := range []int{SR_EOP, SR_OPERR, SR_WRPERR, SR_PGAERR, SR_PGPERR, SR_PGSERR} {
		bits.Set(&sr, pos)
	}

	write32(FLASH_SR, sr)
}

// Program writes buf at addr one halfword at a time, blocking on the
// controller between writes. The controller error flags are left for the
// caller to clear, the programmed data is verified by read-back only.
func (flashCtl) Program(addr uint32, buf []byte) {
	cr := read32(FLASH_CR)
	bits.SetN(&cr, CR_PSIZE, 0b11, PSIZE_X16)
	bits.Set(&cr, CR_PG)
	write32(FLASH_CR, cr)

	for i := 0; i+2 <= len(buf); i += 2 {
		write16(addr+uint32(i), binary.LittleEndian.Uint16(buf[i:]))
		waitIdle()
	}

	cr = read32(FLASH_CR)
	bits.Clear(&cr, CR_PG)
	write32(FLASH_CR, cr)
}

// Read returns a copy of n bytes of memory mapped flash at addr.
func (flashCtl) Read(addr uint32, n int) []byte {
	return append([]byte(nil), flashSlice(addr, n)...)
}

// waitIdle blocks until the controller completes the current program
// operation. The controller either completes or faults, it never hangs
// silently; watchdog supervision is the board's concern.
func waitIdle() {
	for {
		sr := read32(FLASH_SR)

		if !bits.IsSet(&sr, SR_BSY) {
			return
		}
	}
}

// optionBytes lifts the sector write protection covering the bootloader,
// implementing the hotpatch.Memory interface. Lifting protection which is
// already lifted is a no-op, the operation is idempotent.
type optionBytes struct{}

func (optionBytes) Unlock() {
	optcr := read32(FLASH_OPTCR)

	if bits.IsSet(&optcr, OPTCR_OPTLOCK) {
		write32(FLASH_OPTKEYR, FLASH_OPTKEY1)
		write32(FLASH_OPTKEYR, FLASH_OPTKEY2)
		optcr = read32(FLASH_OPTCR)
	}

	// nWRP is active low, setting a sector bit disables its protection
	for sector := bootSectorFirst; sector <= bootSectorLast; sector++ {
		bits.Set(&optcr, OPTCR_NWRP+sector)
	}

	bits.Set(&optcr, OPTCR_OPTSTRT)
	write32(FLASH_OPTCR, optcr)

	waitIdle()
}
