// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package prcmsim models a board's PRCM on a simulated register file.
package prcmsim

import (
	"github.com/platinasystems/prcm/abb"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/internal/reg/sim"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/refclk"
)

// VCBound limits polls of the voltage controller bypass register.
const VCBound = 100

// New returns a register file, as left by ROM, in which the board's DPLLs
// lock, its clock modules report their idle status, the memory frequency
// update completes and the MPU ABB transitions. Rails reached through the
// voltage controller are attached to the file, whose bypass channel always
// acknowledges.
func New(b *prcm.Board, ref refclk.Index) *sim.File {
	f := sim.New()
	r := &b.Regs
	f.Set(r.SysClkSel, uint32(ref)+1)
	for _, base := range []reg.Addr{
		r.DpllMPU, r.DpllCore, r.DpllPer, r.DpllIVA,
		r.DpllABE, r.DpllUSB, r.DpllDDR, r.DpllGMAC,
	} {
		if base != 0 {
			f.Set(base+dpll.ClkMode, dpll.EnMNBypass)
			f.DPLL(base)
		}
	}
	modules := map[reg.Addr]bool{
		r.MemifEMIF1ClkCtrl: true,
		r.MemifEMIF2ClkCtrl: true,
	}
	for _, a := range r.UARTClkCtrl {
		modules[a] = true
	}
	for _, s := range []*prcm.ClockStep{
		&b.Clocks.Basic,
		&b.Clocks.BasicUBoot,
		&b.Clocks.NonEssential,
	} {
		for _, a := range s.HWAuto {
			modules[a] = true
		}
		for _, a := range s.Explicit {
			modules[a] = true
		}
	}
	for a := range modules {
		if a != 0 {
			f.Set(a, uint32(clkctrl.IdleStDisabled)<<clkctrl.IdleStShift)
			f.Module(a)
		}
	}
	if r.ShadowFreqConfig1 != 0 && r.DpllCore != 0 {
		core := r.DpllCore
		f.SelfClear(r.ShadowFreqConfig1, prcm.FreqUpdate, func() {
			mode := f.Get(core + dpll.ClkMode)
			mode = mode&^dpll.EnMask | dpll.EnLock
			f.Set(core+dpll.ClkMode, mode)
			f.Set(core+dpll.IdleSt, dpll.StDpllClk)
		})
	}
	if c := b.ABB; c != nil {
		f.Set(c.Fuse, abb.FuseEnableMask|0x0b)
		f.OnWrite(c.TxDone, func(v uint32) {
			f.Set(c.TxDone, 0)
		})
		f.OnWrite(c.Control, func(v uint32) {
			if v&abb.ControlOppChange != 0 {
				f.Set(c.TxDone, c.TxDoneMask)
			}
		})
	}
	for _, vc := range pmic.VCs(&b.Rails) {
		vc.Bus = f
		vc.Waiter = reg.Waiter{Bound: VCBound}
		vc.SysClkHz = uint32(refclk.Table[ref])
		f.SelfClear(vc.ValBypass, pmic.VCValid, nil)
	}
	return f
}
