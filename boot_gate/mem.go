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

import "unsafe"

// Raw access to memory mapped registers and flash. The gate runs strictly
// sequentially with no other flash access in flight, plain loads and
// stores are sufficient.

func read32(addr uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(uintptr(addr)))
}

func write32(addr uint32, val uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(addr))) = val
}

func write16(addr uint32, val uint16) {
	*(*uint16)(unsafe.Pointer(uintptr(addr))) = val
}

// flashSlice maps n bytes of flash at addr without copying.
func flashSlice(addr uint32, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
}
