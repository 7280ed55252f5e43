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

import "log"

// console surfaces fatal boot warnings to the operator, implementing the
// gate.Console interface.
type console struct {
	// Display renders a warning on the device screen. Optional, the
	// warning is always emitted on the serial console.
	Display func(msg string)
}

// Fatal displays msg and halts the device. It never returns.
func (c *console) Fatal(msg string) {
	log.Printf("BG %s", msg)

	if c.Display != nil {
		c.Display(msg)
	}

	halt()
}

// halt ends the boot cycle. Recovery requires out-of-band intervention
// (e.g. re-flashing the device).
func halt() {
	for {
	}
}
