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

package gate_test

import (
	"bytes"
	"testing"

	"github.com/hwtrust/bootgate/bootcheck"
	"github.com/hwtrust/bootgate/gate"
	"github.com/hwtrust/bootgate/hotpatch"
	"github.com/hwtrust/bootgate/hotpatch/testonly"
)

// halted carries the fatal warning out of the never-returning console.
type halted struct {
	msg string
}

// fakeConsole models the never-return contract of Console.Fatal by
// panicking, which tests recover via runGate.
type fakeConsole struct{}

func (fakeConsole) Fatal(msg string) {
	panic(halted{msg: msg})
}

type fakePatcher struct {
	result bool
	calls  int
}

func (p *fakePatcher) Apply() bool {
	p.calls++
	return p.result
}

// runGate evaluates the gate once and reports whether boot would proceed,
// along with the fatal warning displayed when it would not.
func runGate(t *testing.T, g *gate.Gate) (proceed bool, warning string) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			h, ok := r.(halted)
			if !ok {
				panic(r)
			}
			warning = h.msg
		}
	}()

	g.Check()

	return true, ""
}

// digestFor returns a digest from the audited build table with the given
// trust state.
func digestFor(t *testing.T, state bootcheck.TrustState) []byte {
	t.Helper()

	for _, b := range bootcheck.KnownBuilds() {
		if b.State == state {
			return b.Digest[:]
		}
	}

	t.Fatalf("no known build with state %v", state)
	return nil
}

func TestCheck(t *testing.T) {
	for _, test := range []struct {
		name        string
		digest      []byte
		patch       bool
		wantProceed bool
		wantWarning string
		wantPatches int
	}{
		{
			name:        "patch applied boots",
			digest:      digestFor(t, bootcheck.PatchApplied),
			wantProceed: true,
		},
		{
			name:        "hotpatchable is patched",
			digest:      digestFor(t, bootcheck.Hotpatchable),
			patch:       true,
			wantProceed: true,
			wantPatches: 1,
		},
		{
			name:        "failed patch halts",
			digest:      digestFor(t, bootcheck.Hotpatchable),
			patch:       false,
			wantWarning: "Hotpatch failed. Contact support.",
			wantPatches: 1,
		},
		{
			name:        "unknown build halts",
			digest:      bytes.Repeat([]byte{0x42}, bootcheck.DigestSize),
			wantWarning: "Unknown bootloader. Contact support.",
		},
		{
			name:        "short digest halts",
			digest:      make([]byte, bootcheck.DigestSize-1),
			wantWarning: "Unknown bootloader. Contact support.",
		},
		{
			name:        "missing digest halts",
			digest:      nil,
			wantWarning: "Unknown bootloader. Contact support.",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			patcher := &fakePatcher{result: test.patch}

			g := &gate.Gate{
				Digest:  func() []byte { return test.digest },
				Patcher: patcher,
				Console: fakeConsole{},
			}

			proceed, warning := runGate(t, g)

			if proceed != test.wantProceed {
				t.Errorf("boot proceed = %t, want %t", proceed, test.wantProceed)
			}

			if warning != test.wantWarning {
				t.Errorf("warning = %q, want %q", warning, test.wantWarning)
			}

			if patcher.calls != test.wantPatches {
				t.Errorf("patcher invoked %d times, want %d", patcher.calls, test.wantPatches)
			}
		})
	}
}

// TestCheckPatchesFlash runs the gate end to end against an in-memory
// flash device: classifying a known vulnerable build must leave the patch
// payload at the patch target and let boot proceed.
func TestCheckPatchesFlash(t *testing.T) {
	const flashBase = 0x08020000

	flash := testonly.NewMemFlash(t, flashBase, 0x1000)
	for i := range flash.Mem {
		flash.Mem[i] = byte(i)
	}

	g := &gate.Gate{
		Digest:  func() []byte { return digestFor(t, bootcheck.Hotpatchable) },
		Patcher: &hotpatch.Patcher{Flash: flash, Memory: &testonly.MemGuard{}},
		Console: fakeConsole{},
	}

	proceed, warning := runGate(t, g)

	if !proceed {
		t.Fatalf("boot halted with %q, want proceed", warning)
	}

	off := hotpatch.PatchTarget - flashBase
	if got := flash.Mem[off : off+len(hotpatch.Payload())]; !bytes.Equal(got, hotpatch.Payload()) {
		t.Errorf("patch target holds %x, want %x", got, hotpatch.Payload())
	}
}

// TestCheckHaltsOnCorruptedFlash injects a read-back mismatch into the
// in-memory flash device and expects the gate to halt with the patch
// failure warning.
func TestCheckHaltsOnCorruptedFlash(t *testing.T) {
	flash := testonly.NewMemFlash(t, 0x08020000, 0x1000)
	flash.OnRead = func(addr uint32, buf []byte) {
		buf[len(buf)-1] ^= 0xff
	}

	g := &gate.Gate{
		Digest:  func() []byte { return digestFor(t, bootcheck.Hotpatchable) },
		Patcher: &hotpatch.Patcher{Flash: flash, Memory: &testonly.MemGuard{}},
		Console: fakeConsole{},
	}

	proceed, warning := runGate(t, g)

	if proceed {
		t.Fatal("boot proceeded with a corrupted patch")
	}

	if want := "Hotpatch failed. Contact support."; warning != want {
		t.Errorf("warning = %q, want %q", warning, want)
	}

	if !flash.Locked {
		t.Error("flash left unlocked after failed patch")
	}
}
