// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clocks

import "testing"

func TestErrors(t *testing.T) {
	c := Command{}
	for _, args := range [][]string{
		{"-sim"},
		{"-sim", "basic", "uboot"},
		{"-sim", "video"},
	} {
		if err := c.Main(args...); err == nil {
			t.Error(args, "succeeded")
		}
	}
}

func ExampleCommand_Main() {
	c := Command{}
	c.Main("-sim", "-board", "omap5-uevm", "console")
	c.Main("-sim", "-board", "dra7-evm", "uboot")
	// Output:
	// 0x4a009540 explicit-en functional
	// 0x4a009548 explicit-en functional
	// 0x4a009550 explicit-en functional
	// 0x4a009558 explicit-en functional
	// 0x4a009368 hw-auto functional
	// 0x4a0097f0 explicit-en functional
	// 0x4a0097a8 explicit-en functional
	// 0x4a0093d0 explicit-en functional
}
