// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/vcore"
)

func init() {
	register("omap4-panda", omap4panda)
	register("omap4-panda-es", omap4pandaES)
}

// OMAP4 PRM and CM_CORE_AON sit this far below OMAP5's; CM_CORE matches.
const (
	omap4PRMFrom  = 0x4ae00000
	omap4PRMTo    = 0x4af00000
	omap4PRMDelta = 0x00b00000
)

const (
	omap4RstTime   = 0x4a307b08
	omap4VCBypass  = 0x4a307ba0
	omap4VCI2CMode = 0x4a307ba8
	omap4VCI2CClk  = 0x4a307bac
	omap4ResetUsec = 16000
	omap4VSel0Pin  = "tps62361_vsel0"
	tps62361Set1   = 0x01
	twl6030VCore1  = 0x55
	twl6030VCore2  = 0x5b
	twl6030VCore3  = 0x61
)

func omap4Addr(a reg.Addr) reg.Addr {
	if a >= omap4PRMFrom && a < omap4PRMTo {
		return a - omap4PRMDelta
	}
	return a
}

func omap4Addrs(as []reg.Addr) []reg.Addr {
	r := make([]reg.Addr, len(as))
	for i, a := range as {
		r[i] = omap4Addr(a)
	}
	return r
}

func omap4Bits(bs []prcm.Bits) []prcm.Bits {
	r := make([]prcm.Bits, len(bs))
	for i, b := range bs {
		r[i] = prcm.Bits{Addr: omap4Addr(b.Addr), Set: b.Set}
	}
	return r
}

func omap4Regs() prcm.Regs {
	r := omap5Regs()
	r.SysClkSel = omap4Addr(r.SysClkSel)
	r.ABEPllRefClkSel = omap4Addr(r.ABEPllRefClkSel)
	r.TimerTLDR = omap4Addr(r.TimerTLDR)
	r.TimerTCLR = omap4Addr(r.TimerTCLR)
	r.RstTime = omap4RstTime
	return r
}

func omap4Clocks() prcm.Clocks {
	c := omap5Clocks()
	for _, s := range []*prcm.ClockStep{
		&c.Basic,
		&c.BasicUBoot,
		&c.NonEssential,
	} {
		s.Pre = omap4Bits(s.Pre)
		s.Post = omap4Bits(s.Post)
		s.Domains = omap4Addrs(s.Domains)
		s.HWAuto = omap4Addrs(s.HWAuto)
		s.Explicit = omap4Addrs(s.Explicit)
	}
	return c
}

func omap4Dplls() dpll.Table {
	t := omap5Dplls()
	t.MPU = rows(dpll.Params{M2: dpll.Apply(1)},
		mn{50, 0},   // 12 MHz
		mn{30, 0},   // 20 MHz
		mn{250, 6},  // 16.8 MHz
		mn{125, 3},  // 19.2 MHz
		mn{300, 12}, // 26 MHz
		mn{200, 8},  // 27 MHz
		mn{125, 7},  // 38.4 MHz
	)
	// DDR at 400 MHz
	t.Core = rows(dpll.Params{
		M2:  dpll.Apply(1),
		M3:  dpll.Apply(5),
		H11: dpll.Apply(8),
		H12: dpll.Apply(4),
		H13: dpll.Apply(6),
		H14: dpll.Apply(5),
	},
		mn{200, 2}, mn{40, 0}, mn{250, 5}, mn{125, 2},
		mn{400, 12}, mn{800, 26}, mn{125, 5},
	)
	return t
}

func omap4VC() *pmic.VC {
	return &pmic.VC{
		CfgI2CClk:  omap4VCI2CClk,
		CfgI2CMode: omap4VCI2CMode,
		ValBypass:  omap4VCBypass,
	}
}

func omap4Board(name string, rev prcm.Revision, rails vcore.Rails,
	compatible ...string) *prcm.Board {
	return &prcm.Board{
		Name:          name,
		Compatible:    compatible,
		Revision:      rev,
		Regs:          omap4Regs(),
		Dplls:         omap4Dplls(),
		Rails:         rails,
		Clocks:        omap4Clocks(),
		FreqUpdate:    true,
		ResetTimeUsec: omap4ResetUsec,
	}
}

// OMAP4430 PandaBoard, LPDDR2, TWL6030 through the voltage controller
func omap4panda() *prcm.Board {
	twl := &pmic.TWL6030{Bus: omap4VC(), Addr: pmic.SMPSAddr}
	return omap4Board("omap4-panda", prcm.OMAP4430ES2_0, vcore.Rails{
		MPU: &vcore.Rail{
			Name:       "mpu",
			MilliVolts: 1325,
			Reg:        twl6030VCore1,
			Pmic:       twl,
		},
		Core: &vcore.Rail{
			Name:       "core",
			MilliVolts: 1200,
			Reg:        twl6030VCore3,
			Pmic:       twl,
		},
		MM: &vcore.Rail{
			Name:       "mm",
			MilliVolts: 1200,
			Reg:        twl6030VCore2,
			Pmic:       twl,
		},
	}, "ti,omap4-panda", "ti,omap4430")
}

// OMAP4460 PandaBoard ES, MPU on a TPS62361 selected by GPIO
func omap4pandaES() *prcm.Board {
	vc := omap4VC()
	twl := &pmic.TWL6030{Bus: vc, Addr: pmic.SMPSAddr}
	return omap4Board("omap4-panda-es", prcm.OMAP4460ES1_0, vcore.Rails{
		MPU: &vcore.Rail{
			Name:       "mpu",
			MilliVolts: 1203,
			Reg:        tps62361Set1,
			Pmic: &pmic.TPS62361{
				Bus:  vc,
				Addr: pmic.TPS62361Addr,
				Pin:  omap4VSel0Pin,
			},
		},
		Core: &vcore.Rail{
			Name:       "core",
			MilliVolts: 1200,
			Reg:        twl6030VCore1,
			Pmic:       twl,
		},
		MM: &vcore.Rail{
			Name:       "mm",
			MilliVolts: 1200,
			Reg:        twl6030VCore2,
			Pmic:       twl,
		},
	}, "ti,omap4-panda-es", "ti,omap4460")
}
