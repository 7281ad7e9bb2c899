// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package prcm

import (
	"fmt"
	"strings"

	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
)

var DpllNames = []string{
	"mpu",
	"core",
	"per",
	"iva",
	"abe",
	"usb",
	"ddr",
	"gmac",
}

// Dpll returns the base and this board's row for the named DPLL. The base is
// zero for an unknown name.
func (p *PRCM) Dpll(name string) (reg.Addr, *dpll.Params) {
	t := &p.Dplls
	var base reg.Addr
	var set []dpll.Params
	switch name {
	case "mpu":
		base, set = p.Regs.DpllMPU, t.MPU
	case "core":
		base, set = p.Regs.DpllCore, t.Core
	case "per":
		base, set = p.Regs.DpllPer, t.Per
	case "iva":
		base, set = p.Regs.DpllIVA, t.IVA
	case "abe":
		base, set = p.Regs.DpllABE, t.ABE
	case "usb":
		base, set = p.Regs.DpllUSB, t.USB
	case "ddr":
		base, set = p.Regs.DpllDDR, t.DDR
	case "gmac":
		base, set = p.Regs.DpllGMAC, t.GMAC
	default:
		return 0, nil
	}
	if base == 0 {
		return 0, nil
	}
	return base, t.Row(set, p.RefClkIndex())
}

func (p *PRCM) program(name string, lock bool) error {
	base, params := p.Dpll(name)
	if base == 0 {
		return nil
	}
	return p.dpll.Program(base, params, lock, name)
}

// LockDpll programs and locks the named DPLL.
func (p *PRCM) LockDpll(name string) error {
	base, params := p.Dpll(name)
	if base != 0 && params != nil {
		return p.dpll.Program(base, params, true, name)
	}
	for _, s := range DpllNames {
		if s == name {
			return fmt.Errorf("%s: DPLL unused on %s", name, p.Name)
		}
	}
	return fmt.Errorf("%s: unknown DPLL, must be %s", name,
		strings.Join(DpllNames, "|"))
}

// CM_CLKSEL_CORE, CORE_X2 / 1, L3 / 2, L4 / 2
const (
	ClkSelCoreShift = 0
	ClkSelL3Shift   = 4
	ClkSelL4Shift   = 8
	CoreRatios      = 0<<ClkSelCoreShift | 1<<ClkSelL3Shift |
		1<<ClkSelL4Shift
)

// SetupDplls programs the essential DPLLs. With FreqUpdate SDRAM the core
// DPLL is left for FreqUpdateCore to lock.
func (p *PRCM) SetupDplls() error {
	Debug.Log("setup dplls")
	if err := p.program("core", !p.FreqUpdate); err != nil {
		return err
	}
	if p.Regs.ClkSelCore != 0 {
		p.Bus.Write32(p.Regs.ClkSelCore, CoreRatios)
	}
	if err := p.program("per", true); err != nil {
		return err
	}
	if err := p.ConfigureMPUDpll(); err != nil {
		return err
	}
	if err := p.SetupUSBDpll(); err != nil {
		return err
	}
	if err := p.program("ddr", true); err != nil {
		return err
	}
	return p.program("gmac", true)
}

// CM_MPU_MPU_CLKCTRL
const (
	MPUClkSelEMIFDivMode = 1 << 24
	MPUClkSelABEDivMode  = 1 << 25
)

// ConfigureMPUDpll locks the MPU DPLL. 4460 through OMAP5 silicon first
// disables DCC, needed only above 1 GHz, and halves the EMIF and ABE
// interface clocks.
func (p *PRCM) ConfigureMPUDpll() error {
	base := p.Regs.DpllMPU
	if base == 0 {
		return nil
	}
	if p.Revision >= OMAP4460ES1_0 && p.Revision < OMAP5430ES1_0 {
		p.dpll.Bypass(base)
		reg.ClrBits(p.Bus, p.Regs.MPUClkCtrl, MPUClkSelEMIFDivMode)
		reg.SetBits(p.Bus, p.Regs.MPUClkCtrl, MPUClkSelABEDivMode)
		reg.ClrBits(p.Bus, base+dpll.ClkSel, dpll.DCCEn)
	}
	return p.program("mpu", true)
}

// SetupUSBDpll sets the J-type USB DPLL's sigma-delta divider then locks it.
func (p *PRCM) SetupUSBDpll() error {
	base, params := p.Dpll("usb")
	if base == 0 || params == nil {
		return nil
	}
	sd, ok := params.SDDiv.Value()
	if !ok {
		sd = dpll.USBSDDiv(params, p.SysClk())
	}
	reg.ClrSetField(p.Bus, base+dpll.ClkSel, dpll.SDDivMask,
		dpll.SDDivShift, sd)
	return p.dpll.Program(base, params, true, "usb")
}

// CM_BYPCLK_DPLL_IVA
const (
	IVAClkSelMask       = 0x3
	IVAClkSelCoreX2Div2 = 1
)

// CM_ABE_PLL_REF_CLKSEL and CM_ABE_PLL_SYS_CLKSEL
const (
	ABERefClkSelMask   = 0x1
	ABERefClkSelSysClk = 0
	ABERefClkSel32K    = 1
	ABESysClkSelMask   = 0x1
	ABESysClkSel2      = 1
)

// SetupNonEssentialDplls locks IVA and ABE. Without ABESysClk the ABE DPLL
// multiplies 32 kHz to 196.608 MHz which needs its drift guard, relock ramp,
// low power mode and REGM4X.
func (p *PRCM) SetupNonEssentialDplls() error {
	if p.Regs.BypClkDpllIVA != 0 {
		reg.ClrSetBits(p.Bus, p.Regs.BypClkDpllIVA, IVAClkSelMask,
			IVAClkSelCoreX2Div2)
	}
	if err := p.program("iva", true); err != nil {
		return err
	}
	abe := p.Regs.DpllABE
	if abe == 0 {
		return nil
	}
	ref := uint32(ABERefClkSel32K)
	if p.ABESysClk {
		ref = ABERefClkSelSysClk
		if p.Regs.ABEPllSysClkSel != 0 {
			reg.ClrSetBits(p.Bus, p.Regs.ABEPllSysClkSel,
				ABESysClkSelMask, ABESysClkSel2)
		}
	} else {
		reg.SetBits(p.Bus, abe+dpll.ClkMode, dpll.DriftGuardEn|
			dpll.RelockRampEn|dpll.LPModeEn|dpll.RegM4XEn)
		// 4 REFCLK cycles per stage
		reg.ClrSetField(p.Bus, abe+dpll.ClkMode, dpll.RampRateMask,
			dpll.RampRateShift, dpll.RampRate4Clock)
	}
	if p.Regs.ABEPllRefClkSel != 0 {
		reg.ClrSetBits(p.Bus, p.Regs.ABEPllRefClkSel, ABERefClkSelMask,
			ref)
	}
	return p.program("abe", true)
}

// DDRClock is the memory clock in Hz from the core DPLL row.
func (p *PRCM) DDRClock() uint32 {
	_, params := p.Dpll("core")
	if params == nil {
		return 0
	}
	phyDiv := uint32(2)
	if p.Revision < OMAP5430ES1_0 {
		phyDiv = 4
	}
	return dpll.DDRClock(params, p.SysClk(), phyDiv)
}
