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

//go:build !tamago
// +build !tamago

// gatectl audits bootloader images against the boot gate's known build
// table, without requiring a device.
package main

import (
	"bytes"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/coreos/go-semver/semver"
	"k8s.io/klog/v2"

	"github.com/hwtrust/bootgate/bootcheck"
)

// Bootloader flash region size. Image files shorter than the region are
// padded with erased flash (0xff) before hashing, matching what the device
// digests at boot.
const bootRegionSize = 0x40000

type Config struct {
	image string
	list  bool
}

var conf *Config

func init() {
	conf = &Config{}

	flag.StringVar(&conf.image, "b", "", "classify a bootloader image file")
	flag.BoolVar(&conf.list, "l", false, "list audited bootloader builds")
}

func classify(path string) error {
	buf, err := os.ReadFile(path)

	if err != nil {
		return err
	}

	if len(buf) > bootRegionSize {
		return fmt.Errorf("image exceeds bootloader region (%d > %d bytes)", len(buf), bootRegionSize)
	}

	buf = append(buf, bytes.Repeat([]byte{0xff}, bootRegionSize-len(buf))...)

	sum := sha256.Sum256(buf)
	sum = sha256.Sum256(sum[:])

	state := bootcheck.Classify(sum[:])
	klog.Infof("%s: %x (%s)", path, sum, state)

	if state == bootcheck.Unknown {
		return fmt.Errorf("image does not match any audited build")
	}

	return nil
}

func list() error {
	type row struct {
		build   bootcheck.KnownBuild
		version *semver.Version
	}

	var rows []row

	for _, b := range bootcheck.KnownBuilds() {
		v, err := semver.NewVersion(b.Version)

		if err != nil {
			return fmt.Errorf("invalid build table version %q: %v", b.Version, err)
		}

		rows = append(rows, row{build: b, version: v})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].version.Equal(*rows[j].version) {
			return rows[i].build.Variant < rows[j].build.Variant
		}

		return rows[i].version.LessThan(*rows[j].version)
	})

	for _, r := range rows {
		variant := r.build.Variant

		if variant == "" {
			variant = "-"
		}

		fmt.Printf("%-8s %-8s %-14s %x\n", r.build.Version, variant, r.build.State, r.build.Digest)
	}

	return nil
}

func main() {
	var err error

	klog.InitFlags(nil)

	defer func() {
		if flag.NFlag() == 0 {
			flag.PrintDefaults()
		}

		if err != nil {
			klog.Exitf("fatal error, %s", err)
		}
	}()

	flag.Parse()

	switch {
	case conf.list:
		err = list()
	case len(conf.image) > 0:
		err = classify(conf.image)
	}
}
