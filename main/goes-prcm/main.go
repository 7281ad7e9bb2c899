// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// goes-prcm brings up the clocks, DPLLs and voltage rails of OMAP4, OMAP5
// and DRA7 boards.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/prcm/cmd/clocks"
	"github.com/platinasystems/prcm/cmd/dpll"
	"github.com/platinasystems/prcm/cmd/frequpdate"
	"github.com/platinasystems/prcm/cmd/prcminit"
	"github.com/platinasystems/prcm/cmd/vcore"
	"github.com/platinasystems/prcm/internal/goes"
)

func Goes() goes.ByName {
	g := make(goes.ByName)
	g.Plot(
		clocks.Command{},
		dpll.Command{},
		frequpdate.Command{},
		prcminit.Command{},
		vcore.Command{},
	)
	return g
}

func main() {
	if err := Goes().Main(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
