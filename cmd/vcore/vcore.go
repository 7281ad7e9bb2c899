// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package vcore

import (
	"fmt"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/prcm/internal/machine"
	"github.com/platinasystems/prcm/lang"
	"github.com/platinasystems/prcm/vcore"
)

type Command struct{}

func (Command) String() string { return "vcore" }

func (Command) Usage() string {
	return "vcore [-sim] [-v] [-board NAME] [-n] [RAIL]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "scale SoC voltage rails",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Scale the named rail, or every rail in order, to its efuse trimmed
	voltage then print each rail's PMIC register, voltage and code. Scaling
	every rail also sets up the MPU adaptive body bias.

	-n	print the codes without writing the PMIC`,
	}
}


func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-n")
	m, args, err := machine.Args(args)
	if err != nil {
		return err
	}
	defer m.Close()
	var rail *vcore.Rail
	switch len(args) {
	case 0:
	case 1:
		if rail = m.Rails.ByName(args[0]); rail == nil {
			return fmt.Errorf("%s: no such rail on %s", args[0], m.Name)
		}
	default:
		return fmt.Errorf("%v: unexpected", args[1:])
	}
	if !flag.ByName["-n"] {
		if rail != nil {
			seq := vcore.Sequencer{Bus: m.Bus}
			err = seq.ScaleRail(rail)
		} else {
			err = m.ScaleVcores()
		}
	}
	show := func(r *vcore.Rail) {
		d := r.Pmic.Data()
		mv := vcore.Optimize(m.Bus, r)
		fmt.Printf("%s %#x.%#x %d mV %#x\n", r.Name, d.Addr, r.Reg, mv,
			vcore.OffsetCode(mv*1000, d))
	}
	if rail != nil {
		show(rail)
	} else {
		m.Rails.Each(show)
	}
	if m.PMIC != nil {
		for _, w := range m.PMIC.Writes {
			fmt.Println("wrote", w)
		}
	}
	return err
}
