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

// Package gate decides, once per boot, whether the installed bootloader
// can be trusted to reject unsigned firmware: a known safe build boots, a
// known vulnerable build is hotpatched in place, anything else halts the
// device.
package gate

import "github.com/hwtrust/bootgate/bootcheck"

// Operator warnings for the fatal outcomes. There is no recovery from any
// of them short of out-of-band intervention (e.g. re-flashing).
const (
	warnPatchFailed  = "Hotpatch failed. Contact support."
	warnUnknownBuild = "Unknown bootloader. Contact support."
	warnCheckFailed  = "B/L check failed. Reboot Device!"
)

// Patcher applies the bootloader hotpatch, reporting whether the patch is
// verifiably in effect.
type Patcher interface {
	Apply() bool
}

// Console surfaces fatal boot warnings to the operator.
type Console interface {
	// Fatal displays msg and halts the device. It must never return:
	// the boot cycle ends here.
	Fatal(msg string)
}

// Gate is the boot-time trust gate. It is evaluated exactly once per boot,
// strictly sequentially, before any scheduler or interrupt-driven
// subsystem is active.
type Gate struct {
	// Digest returns the digest of the installed bootloader image. Any
	// result other than exactly bootcheck.DigestSize bytes classifies
	// as an unknown bootloader.
	Digest func() []byte

	Patcher Patcher
	Console Console
}

// Check classifies the installed bootloader and acts on the result. It
// returns only when the bootloader verifiably rejects unsigned firmware;
// every other outcome surfaces a fatal warning and halts the device.
func (g *Gate) Check() {
	switch bootcheck.Classify(g.Digest()) {
	case bootcheck.PatchApplied:
		// already safe, nothing to do
	case bootcheck.Hotpatchable:
		if !g.Patcher.Apply() {
			g.fatal(warnPatchFailed)
		}
	case bootcheck.Unknown:
		g.fatal(warnUnknownBuild)
	default:
		// TrustState is a closed set, this branch is believed
		// unreachable and kept only as a defensive catch-all.
		g.fatal(warnCheckFailed)
	}
}

// fatal hands msg to the console and enforces its never-return contract:
// no boot logic may execute past a fatal decision.
func (g *Gate) fatal(msg string) {
	g.Console.Fatal(msg)
	panic("console returned after fatal warning")
}
