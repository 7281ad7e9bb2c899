// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package machine binds a board's PRCM to the register bus a command runs
// against.
package machine

import (
	"fmt"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/prcm/abb"
	"github.com/platinasystems/prcm/board"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/internal/reg/devmem"
	"github.com/platinasystems/prcm/internal/reg/sim"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/prcm/prcmsim"
	"github.com/platinasystems/prcm/refclk"
	"github.com/platinasystems/prcm/vcore"
)

const (
	FlagSim     = "-sim"
	FlagVerbose = "-v"
	ParmBoard   = "-board"

	// SimRefClk is the simulated system clock.
	SimRefClk = refclk.Index38_4MHz
	SimBound  = 100

	PollDelay = time.Microsecond
)

// Windows are the physical ranges holding every PRCM, control module and
// timer register of the supported SoCs.
var Windows = []struct {
	Base reg.Addr
	Size int
}{
	{0x4a002000, 0x8000}, // control module, CM_CORE
	{0x4a306000, 0x2000}, // OMAP4 PRM, CM_CORE_AON
	{0x4a318000, 0x1000}, // OMAP4 GP timer 1
	{0x4ae06000, 0x2000}, // PRM, CM_CORE_AON
	{0x4ae18000, 0x1000}, // GP timer 1
}

type Machine struct {
	*prcm.PRCM
	// Sim and PMIC are the register file and PMIC traffic of a simulated
	// machine; both are nil on target.
	Sim  *sim.File
	PMIC *pmic.Recorder

	mem *devmem.Bus
}

type Options struct {
	Sim     bool
	Verbose bool
	// Board is detected if empty.
	Board string
}

// Parse removes the machine options from args.
func Parse(args []string) (Options, []string) {
	flag, args := flags.New(args, FlagSim, FlagVerbose)
	parm, args := parms.New(args, ParmBoard)
	return Options{
		Sim:     flag.ByName[FlagSim],
		Verbose: flag.ByName[FlagVerbose],
		Board:   parm.ByName[ParmBoard],
	}, args
}

// Verbose traces every register sequence in the given style.
func Verbose(style dbg.Style) {
	abb.Debug = style
	clkctrl.Debug = style
	dpll.Debug = style
	prcm.Debug = style
	vcore.Debug = style
}

// New detects or names the board then maps /dev/mem, or simulates the
// PRCM with every PMIC write recorded.
func New(opt Options) (*Machine, error) {
	b, err := board.Detect(opt.Board)
	if err != nil {
		return nil, err
	}
	if opt.Verbose {
		Verbose(dbg.Plain)
	}
	m := new(Machine)
	if opt.Sim {
		m.Sim = prcmsim.New(b, SimRefClk)
		m.PMIC = new(pmic.Recorder)
		pmic.Rebus(&b.Rails, m.PMIC)
		m.PRCM = prcm.New(b, m.Sim, reg.Waiter{Bound: SimBound})
		return m, nil
	}
	if m.mem, err = devmem.Open(); err != nil {
		return nil, err
	}
	for _, w := range Windows {
		if err = m.mem.Map(w.Base, w.Size); err != nil {
			m.mem.Close()
			return nil, err
		}
	}
	waiter := reg.Waiter{Bound: reg.LDelay, Delay: PollDelay}
	m.PRCM = prcm.New(b, m.mem, waiter)
	for _, vc := range pmic.VCs(&b.Rails) {
		vc.Bus = m.mem
		vc.Waiter = waiter
		vc.SysClkHz = uint32(m.SysClk())
	}
	return m, nil
}

// Args is Parse then New.
func Args(args []string) (*Machine, []string, error) {
	opt, args := Parse(args)
	m, err := New(opt)
	return m, args, err
}

func (m *Machine) String() string {
	s := fmt.Sprint(m.Name, " ", m.Revision, " ", m.SysClk())
	if m.Sim != nil {
		s += " (simulated)"
	}
	return s
}

// Halt the target on a fatal error; a simulation just returns it.
func (m *Machine) Halt(h prcm.Halter, err error) error {
	if err != nil && m.Sim == nil {
		h.Halt(err)
	}
	return err
}

func (m *Machine) Close() error {
	pmic.Close(&m.Rails)
	if m.mem != nil {
		return m.mem.Close()
	}
	return nil
}
