// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package frequpdate

import (
	"fmt"

	"github.com/platinasystems/prcm/internal/machine"
	"github.com/platinasystems/prcm/lang"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/refclk"
)

type Command struct {
	// Halter stops the target after a timeout, prcm.Hang if nil.
	Halter prcm.Halter
}

func (Command) String() string { return "frequpdate" }

func (Command) Usage() string { return "frequpdate [-sim] [-v] [-board NAME]" }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "lock the core DPLL through the memory frequency update",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Lock the core DPLL at the board's M2 in step with the EMIFs through the
	shadow frequency update, as needed by LPDDR2 SDRAM, then print the
	core DPLL state and memory clock. A timeout halts the target.`,
	}
}


func (c Command) Main(args ...string) error {
	m, args, err := machine.Args(args)
	if err != nil {
		return err
	}
	defer m.Close()
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	if err = m.FreqUpdateCore(); err != nil {
		h := c.Halter
		if h == nil {
			h = prcm.Hang{}
		}
		return m.Halt(h, err)
	}
	core, _ := m.Dpll("core")
	fmt.Println("core", core, m.Controller().State(core))
	fmt.Println("ddr", refclk.Hz(m.DDRClock()))
	return nil
}
