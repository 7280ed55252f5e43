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

package bootcheck

import "encoding/hex"

// knownBuilds is the audited build table. Appending an entry is the only
// change required to support a newly audited bootloader build.
var knownBuilds = []KnownBuild{
	// Builds shipped with the unsigned-firmware branch already removed,
	// or hotpatched by a previous boot.
	{Version: "1.0.0", State: PatchApplied,
		Digest: digest("f13ce228c0bb2bdbc56bdcb5f4569367f8e3011074ccc63331348deb498f2d8f")},
	{Version: "1.0.1", State: PatchApplied,
		Digest: digest("ec618836f86423dbd3114c37d6e3e4ffdfb87d9e4c6199cf3e163a67b27498a2")},
	{Version: "1.0.3", State: PatchApplied,
		Digest: digest("4f9c38c1cd06f59e8d4de8e0d31cdd34c83144d2df550c412e002b4b35bd4fb3")},
	{Version: "1.0.3", Variant: "signed", State: PatchApplied,
		Digest: digest("917d1952260c9b89f3a96bea07eea4074afdcc0e8cdd5d064e36868bdd68ba7d")},
	{Version: "1.0.4", Variant: "salt", State: PatchApplied,
		Digest: digest("fc4e5c4dc2e5127b6814a3f69424c936f1dc241d1daf2c5a2d8f0728eb69d20d")},

	// Builds which still take the unsigned-firmware branch.
	{Version: "1.0.0", State: Hotpatchable,
		Digest: digest("6397c446f6b9002a8b150bf4b9b4e0bb66800ed099b881ca49700139b0559f10")},
	{Version: "1.0.1", State: Hotpatchable,
		Digest: digest("d544b5e06b0c355d68b868ac7580e9bab2d224a1e2440881cc1bca2b816752d5")},
	{Version: "1.0.3", State: Hotpatchable,
		Digest: digest("5aa55e69f1d9aa504de60faf22be93cbd03b13732dcb07bbc0b7f91d42e14ccc")},
	{Version: "1.0.3", Variant: "signed", State: Hotpatchable,
		Digest: digest("cb222548a39ff6cbe2ae2f02c8d431c9ae0df850f814444911f521b95ab02f4c")},
	{Version: "1.0.4", Variant: "salt", State: Hotpatchable,
		Digest: digest("770b30aaa0be884ee8621859f5d055437f894a5c9c7ca22635e7024e059857b7")},
}

func digest(s string) (d [DigestSize]byte) {
	buf, err := hex.DecodeString(s)

	if err != nil || len(buf) != DigestSize {
		panic("malformed build table digest")
	}

	copy(d[:], buf)

	return
}
