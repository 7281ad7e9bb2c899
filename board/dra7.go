// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/refclk"
	"github.com/platinasystems/prcm/vcore"
)

func init() { register("dra7-evm", dra7evm) }

// DRA7xx addresses that differ from OMAP5
const (
	dra7DpllDDR   = 0x4a00521c
	dra7DpllGMAC  = 0x4a0052a8
	dra7ABESysSel = 0x4ae06118
	dra7L4PerDom  = 0x4a009700
	dra7L4Per2Dom = 0x4a0098fc
	dra7GPIO2     = 0x4a009760
	dra7GPIO3     = 0x4a009768
	dra7GPIO4     = 0x4a009770
	dra7I2C1      = 0x4a0097a0
	dra7I2C2      = 0x4a0097a8
	dra7McSPI1    = 0x4a0097f0
	dra7UART1     = 0x4a009840
	dra7UART2     = 0x4a009848
	dra7UART3     = 0x4a009850
	dra7UART4     = 0x4a009858
	dra7GPTimer2  = 0x4a009738
	dra7L3InitDom = 0x4a009300
	dra7GMAC      = 0x4a0093d0

	dra7EfuseMPU  = 0x4a003b20
	dra7EfuseEVE  = 0x4a0025f8
	dra7EfuseGPU  = 0x4a003b08
	dra7EfuseCore = 0x4a0025d8
	dra7EfuseIVA  = 0x4a0025cc

	dra7PlatResetUsec = 6000
)

func dra7Regs() prcm.Regs {
	r := omap5Regs()
	r.DpllDDR = dra7DpllDDR
	r.DpllGMAC = dra7DpllGMAC
	r.ABEPllSysClkSel = dra7ABESysSel
	r.L4PerClkStCtrl = dra7L4PerDom
	r.UARTClkCtrl = []reg.Addr{dra7UART1, dra7UART2, dra7UART3, dra7UART4}
	return r
}

func dra7Dplls() dpll.Table {
	t := omap5Dplls()
	t.MPU = rows(dpll.Params{M2: dpll.Apply(1)},
		mn{250, 2}, mn{500, 9}, mn{119, 1}, mn{625, 11},
		mn{500, 12}, mn{500, 13}, mn{625, 23},
	)
	t.Core = rows(dpll.Params{
		M2:  dpll.Apply(2),
		M3:  dpll.Apply(1),
		H12: dpll.Apply(4),
		H13: dpll.Apply(62),
		H14: dpll.Apply(5),
		H22: dpll.Apply(5),
		H23: dpll.Apply(4),
		H24: dpll.Apply(6),
	},
		mn{266, 2}, mn{266, 4}, mn{443, 6}, mn{277, 4},
		mn{368, 8}, mn{277, 9}, mn{277, 9},
	)
	t.Per = rows(dpll.Params{
		M2:  dpll.Apply(4),
		M3:  dpll.Apply(1),
		H11: dpll.Apply(3),
		H12: dpll.Apply(4),
		H13: dpll.Apply(10),
		H14: dpll.Apply(2),
	},
		mn{32, 0}, mn{96, 4}, mn{160, 6}, mn{20, 0},
		mn{192, 12}, mn{256, 26}, mn{20, 1},
	)
	// from the system clock
	t.ABE = rows(dpll.Params{M2: dpll.Apply(1), M3: dpll.Apply(1)},
		mn{49, 5}, mn{68, 8}, mn{35, 5}, mn{46, 8},
		mn{34, 8}, mn{29, 7}, mn{64, 24},
	)
	t.ABE[refclk.Index20MHz].M2 = dpll.Apply(2)
	t.ABE[refclk.Index26MHz].M2 = dpll.Apply(2)
	t.DDR = rows(dpll.Params{
		M2:  dpll.Apply(1),
		M3:  dpll.Apply(1),
		H11: dpll.Apply(4),
	},
		mn{533, 5}, mn{533, 9}, mn{222, 6}, mn{111, 3},
		mn{41, 1}, mn{296, 14}, mn{111, 7},
	)
	// 16.8 MHz keeps the reset M2
	t.DDR[refclk.Index16_8MHz].M2 = dpll.Div{}
	t.GMAC = rows(dpll.Params{
		M2:  dpll.Apply(4),
		M3:  dpll.Apply(10),
		H11: dpll.Apply(40),
		H12: dpll.Apply(8),
		H13: dpll.Apply(10),
	},
		mn{250, 2}, mn{250, 4}, mn{119, 1}, mn{625, 11},
		mn{500, 12}, mn{500, 13}, mn{625, 23},
	)
	return t
}

func dra7Clocks() prcm.Clocks {
	c := omap5Clocks()
	c.Basic.Pre = []prcm.Bits{
		{Addr: dra7GPIO4, Set: gpioOptFClkEn},
		{Addr: omap5HSMMC1, Set: hsmmcClkSel96M},
		{Addr: omap5HSMMC1, Set: hsmmcClkSelDiv},
		{Addr: omap5GPTimer1, Set: gpTimer1ClkSel32K},
	}
	c.Basic.Post = nil
	c.Basic.Batch = clkctrl.Batch{
		Domains: []reg.Addr{
			omap5WkupDom,
			dra7L4PerDom,
			dra7L3InitDom,
			omap5MemifDom,
			omap5L4CfgDom,
		},
		HWAuto: []reg.Addr{
			omap5GPMC,
			omap5EMIF1,
			omap5L4Cfg,
			omap5WkupGPIO1,
			dra7GPIO2,
			dra7GPIO3,
			dra7GPIO4,
		},
		Explicit: []reg.Addr{
			omap5GPTimer1,
			omap5HSMMC1,
			omap5HSMMC2,
			dra7GPTimer2,
			omap5WDTimer2,
			dra7UART1,
			dra7I2C1,
		},
		Wait: true,
	}
	c.BasicUBoot.Batch = clkctrl.Batch{
		Domains: []reg.Addr{
			dra7L4Per2Dom,
		},
		HWAuto: []reg.Addr{
			omap5HSUSBTLL,
		},
		Explicit: []reg.Addr{
			dra7McSPI1,
			dra7I2C2,
			dra7GMAC,
		},
		Wait: true,
	}
	return c
}

// DRA752 EVM, DDR3, TPS659038
func dra7evm() *prcm.Board {
	p := &pmic.Palmas{Bus: &pmic.I2C{}, Addr: pmic.TPS659038Addr}
	rail := func(name string, mv uint32, r uint8, efuse reg.Addr) *vcore.Rail {
		return &vcore.Rail{
			Name:       name,
			MilliVolts: mv,
			Reg:        r,
			Efuse:      &vcore.Efuse{Addr: efuse, Bits: 16},
			Pmic:       p,
		}
	}
	return &prcm.Board{
		Name:       "dra7-evm",
		Compatible: []string{"ti,dra7-evm", "ti,dra752"},
		Revision:   prcm.DRA752ES1_0,
		Regs:       dra7Regs(),
		Dplls:      dra7Dplls(),
		Rails: vcore.Rails{
			MPU:  rail("mpu", 1090, smps12, dra7EfuseMPU),
			EVE:  rail("eve", 1090, smps45, dra7EfuseEVE),
			GPU:  rail("gpu", 1090, smps6, dra7EfuseGPU),
			Core: rail("core", 1030, smps7, dra7EfuseCore),
			IVA:  rail("iva", 1055, smps8, dra7EfuseIVA),
		},
		Clocks:        dra7Clocks(),
		ABESysClk:     true,
		ResetTimeUsec: dra7PlatResetUsec,
	}
}
