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

// Package bootcheck classifies installed bootloader builds by the digest
// of their flash image, against a static table of audited builds.
package bootcheck

import (
	"bytes"
	"fmt"
)

// DigestSize is the length of a valid bootloader digest.
const DigestSize = 32

// TrustState is the classification of an installed bootloader with respect
// to unsigned firmware execution.
//
// The non-zero values are deliberately non-adjacent bit patterns so that a
// corrupted state word cannot alias another valid state.
type TrustState uint32

const (
	// Unknown marks a bootloader absent from the audited build table,
	// as well as an invalid or missing digest.
	Unknown TrustState = 0x0
	// Hotpatchable marks a build which is safe hardware-wise but still
	// allows unsigned firmware to execute.
	Hotpatchable TrustState = 0xa1f35c78
	// PatchApplied marks a build which rejects unsigned firmware, either
	// as shipped or through a previously applied hotpatch.
	PatchApplied TrustState = 0x95c3a027
)

func (s TrustState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Hotpatchable:
		return "hotpatchable"
	case PatchApplied:
		return "patch applied"
	}
	return fmt.Sprintf("invalid (%#x)", uint32(s))
}

// KnownBuild pairs the digest of a historically shipped bootloader build
// with its trust classification. The set of known builds is append-only,
// entries are added as new builds are audited and never removed.
type KnownBuild struct {
	// Version is the build's release version, without leading "v".
	Version string
	// Variant distinguishes otherwise identically versioned builds
	// (e.g. whitelabel releases). Empty for mainline builds.
	Variant string
	// Digest is the double SHA-256 of the build's flash image.
	Digest [DigestSize]byte
	// State records the outcome of the build's audit.
	State TrustState
}

// Classify maps a bootloader digest to its trust state.
//
// A digest of any length other than DigestSize classifies as Unknown: a
// failed hashing subsystem must be indistinguishable from an unrecognized
// build, both fail closed. Matching is exact, byte for byte.
func Classify(digest []byte) TrustState {
	if len(digest) != DigestSize {
		return Unknown
	}

	for _, b := range knownBuilds {
		if bytes.Equal(digest, b.Digest[:]) {
			return b.State
		}
	}

	return Unknown
}

// KnownBuilds returns a copy of the audited build table.
func KnownBuilds() []KnownBuild {
	return append([]KnownBuild(nil), knownBuilds...)
}
