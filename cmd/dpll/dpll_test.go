// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dpll

import (
	"strings"
	"testing"
)

func TestErrors(t *testing.T) {
	c := Command{}
	for _, x := range []struct {
		args []string
		err  string
	}{
		{[]string{"-sim"}, "missing"},
		{[]string{"-sim", "mpu", "lock", "now"}, "unexpected"},
		{[]string{"-sim", "mpu", "relock"}, "invalid operation"},
		{[]string{"-sim", "dsp"}, "unknown DPLL"},
		{[]string{"-sim", "-board", "omap5-uevm", "gmac", "bypass"},
			"unused"},
	} {
		err := c.Main(x.args...)
		if err == nil || !strings.Contains(err.Error(), x.err) {
			t.Error(x.args, err)
		}
	}
}

func ExampleCommand_Main() {
	c := Command{}
	c.Main("-sim", "-board", "omap5-uevm", "per")
	c.Main("-sim", "-board", "omap5-uevm", "per", "lock")
	c.Main("-sim", "-board", "dra7-evm", "gmac", "bypass")
	// Output:
	// per 0x4a008140 unlocked M 0 N 0
	// omap5-uevm 38.4 MHz: M 20 N 1 m2 4 m3 3 h11 6 h12 4 h14 2
	// per 0x4a008140 locked M 20 N 1
	// omap5-uevm 38.4 MHz: M 20 N 1 m2 4 m3 3 h11 6 h12 4 h14 2
	// gmac 0x4a0052a8 unlocked M 0 N 0
	// dra7-evm 38.4 MHz: M 625 N 23 m2 4 m3 10 h11 40 h12 8 h13 10
}
