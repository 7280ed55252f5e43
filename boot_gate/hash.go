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

import "crypto/sha256"

// Bootloader flash region. The region is hashed in full, including erased
// trailing space, so the digest identifies the exact flashed state and not
// just the image payload.
const (
	bootRegionStart = 0x08020000
	bootRegionSize  = 0x40000
)

// bootloaderDigest returns the double SHA-256 of the installed bootloader,
// read directly from its memory mapped flash sectors. It is recomputed on
// every boot and never stored.
func bootloaderDigest() []byte {
	sum := sha256.Sum256(flashSlice(bootRegionStart, bootRegionSize))
	sum = sha256.Sum256(sum[:])

	return sum[:]
}
