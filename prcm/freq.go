// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package prcm

import (
	"fmt"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
)

// CM_SHADOW_FREQ_CONFIG1
const (
	FreqUpdate      = 1 << 0
	DLLReset        = 1 << 2
	DpllEnShift     = 8
	DpllEnMask      = 0x7 << DpllEnShift
	M2DivShift      = 11
	M2DivMask       = 0x1f << M2DivShift
	shadowConfigure = FreqUpdate | DLLReset
)

// FreqUpdateConfig1 is the shadow register command locking the core DPLL at
// m2.
func FreqUpdateConfig1(m2 uint32) uint32 {
	return shadowConfigure |
		(dpll.EnLock<<DpllEnShift)&DpllEnMask |
		(m2<<M2DivShift)&M2DivMask
}

func (p *PRCM) waitEMIFs() {
	p.clk.WaitForEnable(p.Regs.MemifEMIF1ClkCtrl)
	p.clk.WaitForEnable(p.Regs.MemifEMIF2ClkCtrl)
}

// FreqUpdateCore locks the core DPLL in step with the memory controller. A
// timeout is fatal and wraps ErrFreqUpdateTimeout.
func (p *PRCM) FreqUpdateCore() error {
	core, params := p.Dpll("core")
	if params == nil {
		return fmt.Errorf("core DPLL unused on %s", p.Name)
	}
	m2, _ := params.M2.Value()
	p.clk.EnableDomain(p.Regs.MemifClkStCtrl, clkctrl.SWWakeup)
	p.waitEMIFs()

	p.Bus.Write32(p.Regs.ShadowFreqConfig1, FreqUpdateConfig1(m2))
	if !p.clk.Waiter.OnValue(p.Bus, FreqUpdate, 0,
		p.Regs.ShadowFreqConfig1) {
		log.Print("err", ErrFreqUpdateTimeout)
		return fmt.Errorf("%s: %w", p.Regs.ShadowFreqConfig1,
			ErrFreqUpdateTimeout)
	}

	p.dpll.Resync(core)

	// EMIF clocks and the master DLL misbehave in HW_AUTO on 5430 ES1.0
	if p.Revision != OMAP5430ES1_0 {
		p.clk.EnableDomain(p.Regs.MemifClkStCtrl, clkctrl.HWAuto)
		p.waitEMIFs()
	}
	return nil
}

// SetupClocksForConsole enables every UART so whichever is the console
// works before Init. It neither waits nor logs.
func (p *PRCM) SetupClocksForConsole() {
	reg.ClrSetField(p.Bus, p.Regs.L4PerClkStCtrl, clkctrl.ClkTrCtrlMask,
		clkctrl.ClkTrCtrlShift, uint32(clkctrl.SWWakeup))
	for _, uart := range p.Regs.UARTClkCtrl {
		reg.ClrSetField(p.Bus, uart, clkctrl.ModuleModeMask,
			clkctrl.ModuleModeShift,
			uint32(clkctrl.ModuleExplicitEnable))
	}
	reg.ClrSetField(p.Bus, p.Regs.L4PerClkStCtrl, clkctrl.ClkTrCtrlMask,
		clkctrl.ClkTrCtrlShift, uint32(clkctrl.HWAuto))
}
