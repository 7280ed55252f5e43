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

// The boot_gate stage runs before any bootloader logic: it verifies which
// bootloader revision is flashed and, if that revision is known to accept
// unsigned firmware, patches it in place. It runs exactly once per boot,
// before any scheduler or interrupt-driven subsystem is active.
package main

import (
	"log"
	"os"
	"runtime"

	"github.com/hwtrust/bootgate/gate"
	"github.com/hwtrust/bootgate/hotpatch"
)

// initialized at compile time (see Makefile)
var (
	Build    string
	Revision string
)

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)

	log.Printf("%s/%s (%s) • bootloader trust gate • %s %s",
		runtime.GOOS, runtime.GOARCH, runtime.Version(),
		Revision, Build)
}

func main() {
	g := &gate.Gate{
		Digest: bootloaderDigest,
		Patcher: &hotpatch.Patcher{
			Flash:  flashCtl{},
			Memory: optionBytes{},
		},
		Console: &console{},
	}

	// halts the device on any outcome other than a trusted bootloader
	g.Check()

	log.Printf("BG bootloader verified, continuing boot")
}
