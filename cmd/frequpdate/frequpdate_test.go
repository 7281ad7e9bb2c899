// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package frequpdate

import "testing"

func TestUnexpected(t *testing.T) {
	if err := (Command{}).Main("-sim", "now"); err == nil {
		t.Error("succeeded")
	}
}

func ExampleCommand_Main() {
	c := Command{}
	c.Main("-sim", "-board", "omap5-sevm")
	c.Main("-sim", "-board", "omap4-panda")
	// Output:
	// core 0x4a004120 locked
	// ddr 531.84 MHz
	// core 0x4a004120 locked
	// ddr 400 MHz
}
