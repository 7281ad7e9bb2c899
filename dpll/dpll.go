// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dpll bypasses, programs and locks the SoC's digital phase locked
// loops.
//
// Each DPLL multiplies the reference clock by M/(N+1) and feeds up to ten
// post-divided outputs. A DPLL must be in bypass while its M and N change and
// must be locked before anything it clocks is used.
package dpll

import (
	"fmt"
	"strings"

	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/refclk"
)

// Register offsets from a DPLL's CM_CLKMODE_DPLL base.
const (
	ClkMode  reg.Addr = 0x00
	IdleSt   reg.Addr = 0x04
	AutoIdle reg.Addr = 0x08
	ClkSel   reg.Addr = 0x0c
	DivM2    reg.Addr = 0x10
	DivM3    reg.Addr = 0x14
	DivH11   reg.Addr = 0x18
	DivH12   reg.Addr = 0x1c
	DivH13   reg.Addr = 0x20
	DivH14   reg.Addr = 0x24
	DivH21   reg.Addr = 0x34
	DivH22   reg.Addr = 0x38
	DivH23   reg.Addr = 0x3c
	DivH24   reg.Addr = 0x40
)

// CM_CLKMODE_DPLL
const (
	EnShift = 0
	EnMask  = 0x7 << EnShift

	EnStop             = 1
	EnMNBypass         = 4
	EnLowPowerBypass   = 5
	EnFastRelockBypass = 6
	EnLock             = 7

	DriftGuardEn   = 1 << 8
	RelockRampEn   = 1 << 9
	LPModeEn       = 1 << 10
	RegM4XEn       = 1 << 11
	RampRateShift  = 5
	RampRateMask   = 0x7 << RampRateShift
	RampRate4Clock = 1
)

// CM_IDLEST_DPLL
const StDpllClk = 1 << 0

// CM_CLKSEL_DPLL
const (
	NShift     = 0
	NMask      = 0x7f << NShift
	MShift     = 8
	MMask      = 0x7ff << MShift
	DCCEn      = 1 << 22
	SDDivShift = 24
	SDDivMask  = 0xff << SDDivShift
)

// Div is an optional post-divider value. The zero Div leaves the hardware
// divider as it is; zero is itself a legal divider value.
type Div struct {
	v  uint32
	ok bool
}

func Apply(v uint32) Div { return Div{v, true} }

func (d Div) Value() (uint32, bool) { return d.v, d.ok }

func (d Div) String() string {
	if !d.ok {
		return "-"
	}
	return fmt.Sprint(d.v)
}

// Params is one board row for one DPLL at one reference clock.
type Params struct {
	M, N uint32

	M2, M3             Div
	H11, H12, H13, H14 Div
	H21, H22, H23, H24 Div

	// SDDiv overrides the computed sigma-delta divider of J-type DPLLs.
	SDDiv Div
}

type postDivider struct {
	name string
	off  reg.Addr
	div  Div
}

func (p *Params) postDividers() []postDivider {
	return []postDivider{
		{"m2", DivM2, p.M2},
		{"m3", DivM3, p.M3},
		{"h11", DivH11, p.H11},
		{"h12", DivH12, p.H12},
		{"h13", DivH13, p.H13},
		{"h14", DivH14, p.H14},
		{"h21", DivH21, p.H21},
		{"h22", DivH22, p.H22},
		{"h23", DivH23, p.H23},
		{"h24", DivH24, p.H24},
	}
}

func (p *Params) String() string {
	if p == nil {
		return "unused"
	}
	s := []string{fmt.Sprintf("M %d N %d", p.M, p.N)}
	for _, pd := range p.postDividers() {
		if _, ok := pd.div.Value(); ok {
			s = append(s, pd.name+" "+pd.div.String())
		}
	}
	return strings.Join(s, " ")
}

// Table holds the per-purpose row sets of a board, each indexed by
// refclk.Index. A nil set means the DPLL isn't used on that board.
type Table struct {
	MPU, Core, Per, IVA, ABE, USB, DDR, GMAC []Params
}

// Row returns the set's row for the reference clock. A single row set is
// clocked independently of the system clock (e.g. ABE from 32 kHz) and is
// returned for every index.
func (t *Table) Row(set []Params, i refclk.Index) *Params {
	switch {
	case len(set) == 0:
		return nil
	case len(set) == 1:
		return &set[0]
	case int(i) >= len(set):
		panic(fmt.Errorf("dpll: no row for reference clock index %d",
			int(i)))
	}
	return &set[i]
}

// USBSDDiv is the sigma-delta divider of a J-type DPLL,
//
//	ceil((M / (N+1)) * CLKINP / 250 MHz)
//
// computed in kHz to keep precision without overflow.
func USBSDDiv(p *Params, sysclk refclk.Hz) uint32 {
	num := p.M * sysclk.KHz()
	den := (p.N + 1) * 250 * 1000
	num += den - 1
	return num / den
}

// DDRClock is the memory clock in Hz given the core DPLL's row. phyDiv is the
// divider from the DPLL output to the DDR clock: 4 before OMAP5, 2 after.
func DDRClock(p *Params, sysclk refclk.Hz, phyDiv uint32) uint32 {
	m2, ok := p.M2.Value()
	if !ok || m2 == 0 || phyDiv == 0 {
		return 0
	}
	clk := sysclk.KHz() * 2 * p.M / (p.N + 1)
	clk = clk / phyDiv / m2
	return clk * 1000
}
