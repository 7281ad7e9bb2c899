// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clocks

import (
	"fmt"

	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/internal/machine"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/lang"
	"github.com/platinasystems/prcm/prcm"
)

type Command struct{}

func (Command) String() string { return "clocks" }

func (Command) Usage() string {
	return "clocks [-sim] [-v] [-board NAME] console|basic|uboot|nonessential"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "enable a set of clock domains and modules",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Enable the board's clocks of the given set then print the mode and
	idle status of each module.

	console		every UART, without waiting
	basic		clocks needed by the first stage loader
	uboot		clocks needed by later stages
	nonessential	video, imaging, audio and accelerator clocks`,
	}
}


func (Command) Main(args ...string) error {
	m, args, err := machine.Args(args)
	if err != nil {
		return err
	}
	defer m.Close()
	if len(args) != 1 {
		return fmt.Errorf("SET: missing or unexpected")
	}
	var step *prcm.ClockStep
	switch args[0] {
	case "console":
		m.SetupClocksForConsole()
		show(m.Bus, m.Regs.UARTClkCtrl)
		return nil
	case "basic":
		step = &m.Clocks.Basic
	case "uboot":
		step = &m.Clocks.BasicUBoot
	case "nonessential":
		step = &m.Clocks.NonEssential
	default:
		return fmt.Errorf("%s: invalid set", args[0])
	}
	m.EnableClocks(step.Batch)
	show(m.Bus, step.HWAuto)
	show(m.Bus, step.Explicit)
	return nil
}

func show(bus reg.Bus, modules []reg.Addr) {
	for _, a := range modules {
		mode, st := clkctrl.Module(bus, a)
		fmt.Println(a, mode, st)
	}
}
