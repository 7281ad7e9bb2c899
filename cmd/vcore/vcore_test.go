// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package vcore

import "testing"

func TestErrors(t *testing.T) {
	c := Command{}
	for _, args := range [][]string{
		{"-sim", "-board", "omap5-uevm", "gpu"},
		{"-sim", "-board", "omap5-uevm", "mpu", "core"},
	} {
		if err := c.Main(args...); err == nil {
			t.Error(args, "succeeded")
		}
	}
}

func ExampleCommand_Main() {
	c := Command{}
	c.Main("-sim", "-n", "-board", "dra7-evm")
	c.Main("-sim", "-board", "omap5-uevm", "mpu")
	// Output:
	// core 0x58.0x33 1030 mV 0x3b
	// mpu 0x58.0x23 1090 mV 0x41
	// gpu 0x58.0x2f 1090 mV 0x41
	// eve 0x58.0x2b 1090 mV 0x41
	// iva 0x58.0x37 1055 mV 0x3e
	// mpu 0x12.0x23 1060 mV 0x3e
	// wrote 0x12.0x23=0x3e
}
