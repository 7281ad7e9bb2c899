// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dpll

import (
	"fmt"
	"strings"

	"github.com/platinasystems/prcm/internal/machine"
	"github.com/platinasystems/prcm/lang"
	"github.com/platinasystems/prcm/prcm"
)

type Command struct{}

func (Command) String() string { return "dpll" }

func (Command) Usage() string {
	return "dpll [-sim] [-v] [-board NAME] NAME [lock|bypass|show]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "lock, bypass or show a DPLL",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Program and lock the named DPLL with the board's parameters for the
	detected system clock, put it in fast relock bypass, or show its
	state, programmed multiplier and divider, and the board's parameters.

	NAME is one of ` + strings.Join(prcm.DpllNames, ", ") + `.
	The default operation is show.`,
	}
}


func (Command) Main(args ...string) error {
	m, args, err := machine.Args(args)
	if err != nil {
		return err
	}
	defer m.Close()
	switch len(args) {
	case 0:
		return fmt.Errorf("NAME: missing")
	case 1:
		args = append(args, "show")
	case 2:
	default:
		return fmt.Errorf("%v: unexpected", args[2:])
	}
	name, op := args[0], args[1]
	base, params := m.Dpll(name)
	switch op {
	case "lock":
		if err = m.LockDpll(name); err != nil {
			return err
		}
	case "bypass", "show":
		if base == 0 || params == nil {
			// for the unknown or unused error
			return m.LockDpll(name)
		}
		if op == "bypass" {
			m.Controller().Bypass(base)
		}
	default:
		return fmt.Errorf("%s: invalid operation, must be lock|bypass|show",
			op)
	}
	c := m.Controller()
	mm, n := c.MN(base)
	fmt.Printf("%s %v %v M %d N %d\n", name, base, c.State(base), mm, n)
	fmt.Printf("%s %v: %v\n", m.Name, m.SysClk(), params)
	return nil
}
