// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package prcm brings the SoC power, reset and clock manager from reset to
// its boot operating point.
//
// A Board describes the SoC's register map and the board's DPLL rows,
// voltage rails and clock lists. New binds a Board to a register bus; Init
// then runs the bring-up sequence appropriate to the boot Context.
package prcm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/abb"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/refclk"
	"github.com/platinasystems/prcm/vcore"
)

var Debug = dbg.NoOp

// ErrFreqUpdateTimeout is fatal; the memory controller and core DPLL are no
// longer in step.
var ErrFreqUpdateTimeout = errors.New("FREQ UPDATE procedure failed")

// Context is the boot stage running Init.
type Context int

const (
	SPL     Context = iota // secondary program loader
	FromROM                // loader started by ROM from XIP memory
	AfterCH                // loader after ROM's configuration header
	Other
)

var contexts = []string{"spl", "rom", "ch", "other"}

func (ctx Context) String() string {
	if ctx < 0 || int(ctx) >= len(contexts) {
		return fmt.Sprint("context(", int(ctx), ")")
	}
	return contexts[ctx]
}

func ParseContext(s string) (Context, error) {
	for i, name := range contexts {
		if strings.EqualFold(s, name) {
			return Context(i), nil
		}
	}
	return Other, fmt.Errorf("%s: invalid context, must be %s", s,
		strings.Join(contexts, "|"))
}

// Revision is the silicon ID code, family, part and ES level.
type Revision uint32

const (
	OMAP4430ES1_0 Revision = 0x44300100
	OMAP4430ES2_0 Revision = 0x44300200
	OMAP4460ES1_0 Revision = 0x44600100
	OMAP5430ES1_0 Revision = 0x54300100
	OMAP5430ES2_0 Revision = 0x54300200
	OMAP5432ES1_0 Revision = 0x54320100
	OMAP5432ES2_0 Revision = 0x54320200
	DRA752ES1_0   Revision = 0x07520100
)

func (r Revision) String() string {
	family := "OMAP"
	if r>>28 == 0 {
		family = "DRA"
	}
	return fmt.Sprintf("%s%x ES%d.%d", family, uint32(r)>>16,
		(r>>8)&0xff, r&0xff)
}

// Regs are the SoC's PRCM register addresses. DPLLs are located by their
// CM_CLKMODE_DPLL register; a zero address is absent.
type Regs struct {
	SysClkSel reg.Addr

	DpllMPU, DpllCore, DpllPer, DpllIVA reg.Addr
	DpllABE, DpllUSB, DpllDDR, DpllGMAC reg.Addr

	ClkSelCore      reg.Addr
	BypClkDpllIVA   reg.Addr
	ABEPllRefClkSel reg.Addr
	ABEPllSysClkSel reg.Addr
	MPUClkCtrl      reg.Addr

	MemifClkStCtrl    reg.Addr
	MemifEMIF1ClkCtrl reg.Addr
	MemifEMIF2ClkCtrl reg.Addr
	ShadowFreqConfig1 reg.Addr

	L4PerClkStCtrl reg.Addr
	UARTClkCtrl    []reg.Addr

	RstTime reg.Addr

	// GP timer 1
	TimerTLDR reg.Addr
	TimerTCLR reg.Addr
}

// Bits are OR'd into a register around a clock step.
type Bits struct {
	Addr reg.Addr
	Set  uint32
}

// ClockStep is a clock enable batch with the register bits that must be set
// before and after it.
type ClockStep struct {
	Pre []Bits
	clkctrl.Batch
	Post []Bits
}

type Clocks struct {
	Basic, BasicUBoot, NonEssential ClockStep
}

// Board is the immutable configuration of one SoC and board.
type Board struct {
	Name       string
	Compatible []string // device tree
	Revision   Revision
	Regs       Regs
	Dplls      dpll.Table
	Rails      vcore.Rails
	ABB        *abb.Config
	Clocks     Clocks

	// Resolver overrides refclk.Default.
	Resolver refclk.Resolver

	// FreqUpdate SDRAM (LPDDR2) locks the core DPLL through the memory
	// controller's frequency update.
	FreqUpdate bool
	// ABESysClk references the ABE DPLL to the system clock, not 32 kHz.
	ABESysClk bool
	// ResetTimeUsec is the platform's maximum warm reset time.
	ResetTimeUsec uint32
}

// Halter stops the system after a fatal error.
type Halter interface {
	Halt(err error)
}

// Hang logs the error and blocks forever.
type Hang struct{}

func (Hang) Halt(err error) {
	log.Print("emerg", "halt: ", err)
	select {}
}

type PRCM struct {
	*Board
	Bus reg.Bus
	// EnableAll also brings up the non-essential DPLLs and clocks.
	EnableAll bool

	ref  refclk.Cache
	dpll *dpll.Controller
	clk  clkctrl.Controller
	seq  vcore.Sequencer
}

func New(b *Board, bus reg.Bus, w reg.Waiter) *PRCM {
	p := &PRCM{
		Board: b,
		Bus:   bus,
		dpll:  dpll.New(bus, w),
		clk:   clkctrl.Controller{Bus: bus, Waiter: w},
		seq:   vcore.Sequencer{Bus: bus},
	}
	p.ref.Resolver = b.Resolver
	if p.ref.Resolver == nil {
		p.ref.Resolver = refclk.Default{
			Bus:        bus,
			SysClkSel:  b.Regs.SysClkSel,
			Buggy:      b.Revision == OMAP4430ES1_0,
			BuggyIndex: refclk.Index38_4MHz,
		}
	}
	return p
}

func (p *PRCM) Controller() *dpll.Controller { return p.dpll }

func (p *PRCM) RefClkIndex() refclk.Index { return p.ref.Index() }

func (p *PRCM) SysClk() refclk.Hz { return refclk.Frequency(&p.ref) }

// Init runs the bring-up for ctx. Only fatal errors are returned; Init stops
// at the first.
func (p *PRCM) Init(ctx Context) error {
	Debug.Log("init", p.Name, ctx)
	switch ctx {
	case SPL, FromROM, AfterCH:
		p.EnableBasicClocks()
		p.StartTimer()
		p.ScaleVcores()
		p.RecalibrateIO()
		if err := p.SetupDplls(); err != nil {
			return err
		}
		if p.EnableAll {
			if err := p.SetupNonEssentialDplls(); err != nil {
				return err
			}
			p.EnableNonEssentialClocks()
		}
		p.SetupWarmResetTime()
	}
	if ctx != SPL {
		p.EnableBasicUBootClocks()
	}
	return nil
}

// EnableClocks runs an arbitrary batch.
func (p *PRCM) EnableClocks(b clkctrl.Batch) { p.clk.EnableClocks(b) }

func (p *PRCM) step(s *ClockStep) {
	for _, b := range s.Pre {
		reg.SetBits(p.Bus, b.Addr, b.Set)
	}
	p.clk.EnableClocks(s.Batch)
	for _, b := range s.Post {
		reg.SetBits(p.Bus, b.Addr, b.Set)
	}
}

func (p *PRCM) EnableBasicClocks()        { p.step(&p.Clocks.Basic) }
func (p *PRCM) EnableBasicUBootClocks()   { p.step(&p.Clocks.BasicUBoot) }
func (p *PRCM) EnableNonEssentialClocks() { p.step(&p.Clocks.NonEssential) }

// GP timer TCLR
const (
	TCLRStart      = 1 << 0
	TCLRAutoReload = 1 << 1
	TCLRPTVShift   = 2
	TCLRPrescale   = 1 << 5
	TimerPTV       = 2
)

// StartTimer starts GP timer 1 counting up from zero with auto reload.
func (p *PRCM) StartTimer() {
	if p.Regs.TimerTCLR == 0 {
		return
	}
	p.Bus.Write32(p.Regs.TimerTLDR, 0)
	p.Bus.Write32(p.Regs.TimerTCLR, TimerPTV<<TCLRPTVShift|TCLRPrescale|
		TCLRAutoReload|TCLRStart)
}

// ScaleVcores scales every rail, setting up the MPU ABB once its rail
// settles. Rail failures are logged and returned but aren't fatal.
func (p *PRCM) ScaleVcores() error {
	return p.seq.ScaleAll(&p.Rails, func() {
		if p.ABB != nil {
			abb.Setup(p.Bus, p.ABB, uint32(p.SysClk()))
		}
	})
}

func (p *PRCM) RecalibrateIO() {
	if err := vcore.Recalibrate(&p.Rails); err != nil {
		log.Print("err", "io recalibration: ", err)
	}
}

// PRM_RSTTIME
const (
	RstTime1Shift = 0
	RstTime1Mask  = 0x3ff << RstTime1Shift
)

// ResetTime is the RSTTIME1 count of 32 kHz cycles for usec, saturated.
func ResetTime(usec uint32) uint32 {
	n := uint64(usec) * 32768 / 1000000
	if n > RstTime1Mask>>RstTime1Shift {
		n = RstTime1Mask >> RstTime1Shift
	}
	return uint32(n)
}

func (p *PRCM) SetupWarmResetTime() {
	if p.Regs.RstTime == 0 {
		return
	}
	reg.ClrSetField(p.Bus, p.Regs.RstTime, RstTime1Mask, RstTime1Shift,
		ResetTime(p.ResetTimeUsec))
}

// Status summarizes the bring-up by field.
func (p *PRCM) Status() map[string]string {
	m := map[string]string{
		"board":    p.Name,
		"revision": p.Revision.String(),
		"sysclk":   p.SysClk().String(),
	}
	for _, name := range DpllNames {
		base, params := p.Dpll(name)
		if base == 0 || params == nil {
			continue
		}
		m["dpll."+name] = p.dpll.State(base).String()
	}
	if ddr := p.DDRClock(); ddr != 0 {
		m["ddr.clock"] = refclk.Hz(ddr).String()
	}
	return m
}
