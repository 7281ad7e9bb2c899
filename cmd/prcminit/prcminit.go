// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package prcminit

import (
	"fmt"
	"os"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/prcm/internal/machine"
	"github.com/platinasystems/prcm/internal/report"
	"github.com/platinasystems/prcm/lang"
	"github.com/platinasystems/prcm/prcm"
)

type Command struct {
	// Halter stops the target after a fatal error, prcm.Hang if nil.
	Halter prcm.Halter
}

func (Command) String() string { return "prcminit" }

func (Command) Usage() string {
	return "prcminit [-all] [-sim] [-v] [-publish] [-board NAME] " +
		"[-context spl|rom|ch|other]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "bring up clocks, DPLLs and voltage rails",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Bring the power, reset and clock manager from reset to its boot
	operating point then print the result.

	-all	also lock the IVA and ABE DPLLs and enable non-essential clocks
	-sim	run against a simulated register file
	-v	trace register sequencing
	-publish	send the result to the redis default hash
	-board	board name, otherwise matched from the device tree
	-context	boot stage, default spl

	A DPLL lock or frequency update timeout halts the target.`,
	}
}


func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-all", "-publish")
	parm, args := parms.New(args, "-context")
	m, args, err := machine.Args(args)
	if err != nil {
		return err
	}
	defer m.Close()
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	ctx := prcm.SPL
	if s := parm.ByName["-context"]; len(s) > 0 {
		if ctx, err = prcm.ParseContext(s); err != nil {
			return err
		}
	}
	m.EnableAll = flag.ByName["-all"]
	if err = m.Init(ctx); err != nil {
		h := c.Halter
		if h == nil {
			h = prcm.Hang{}
		}
		return m.Halt(h, err)
	}
	status := m.Status()
	status["context"] = ctx.String()
	if m.PMIC != nil {
		status["pmic"] = fmt.Sprint(m.PMIC.Writes)
	}
	report.Print(os.Stdout, status)
	if flag.ByName["-publish"] {
		return report.Publish(status)
	}
	return nil
}
