// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"github.com/platinasystems/prcm/abb"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/vcore"
)

func init() {
	register("omap5-uevm", omap5uevm)
	register("omap5-sevm", omap5sevm)
}

// OMAP5 CM_CORE_AON, CM_CORE and PRM addresses
const (
	omap5SysClkSel = 0x4ae06110

	omap5DpllCore  = 0x4a004120
	omap5DpllMPU   = 0x4a004160
	omap5DpllIVA   = 0x4a0041a0
	omap5DpllABE   = 0x4a0041e0
	omap5DpllPer   = 0x4a008140
	omap5DpllUSB   = 0x4a008180
	omap5ClkSelCor = 0x4a004100
	omap5BypClkIVA = 0x4a0041dc
	omap5ABERefSel = 0x4ae0610c
	omap5MPUClk    = 0x4a004320
	omap5ShadowFC1 = 0x4a004260

	omap5MemifDom  = 0x4a008b00
	omap5EMIF1     = 0x4a008b30
	omap5EMIF2     = 0x4a008b38
	omap5L3MainDom = 0x4a008c00
	omap5GPMC      = 0x4a008c28
	omap5L4CfgDom  = 0x4a008d00
	omap5L4Cfg     = 0x4a008d20
	omap5IVAHDDom  = 0x4a008f00
	omap5IVAHD     = 0x4a008f20
	omap5SL2       = 0x4a008f28
	omap5CamDom    = 0x4a009000
	omap5ISS       = 0x4a009020
	omap5DSSDom    = 0x4a009100
	omap5DSS       = 0x4a009120
	omap5GPUDom    = 0x4a009200
	omap5GPU       = 0x4a009220
	omap5L3InitDom = 0x4a009300
	omap5HSMMC1    = 0x4a009328
	omap5HSMMC2    = 0x4a009330
	omap5HSI       = 0x4a009338
	omap5HSUSBTLL  = 0x4a009368
	omap5L4PerDom  = 0x4a009400
	omap5GPTimer2  = 0x4a009438
	omap5GPIO2     = 0x4a009460
	omap5GPIO3     = 0x4a009468
	omap5GPIO4     = 0x4a009470
	omap5I2C1      = 0x4a0094a0
	omap5I2C2      = 0x4a0094a8
	omap5I2C3      = 0x4a0094b0
	omap5I2C4      = 0x4a0094b8
	omap5McSPI1    = 0x4a0094f0
	omap5UART1     = 0x4a009540
	omap5UART2     = 0x4a009548
	omap5UART3     = 0x4a009550
	omap5UART4     = 0x4a009558
	omap5ABEDom    = 0x4a004400
	omap5ABEL4     = 0x4a004420

	omap5WkupDom     = 0x4ae07800
	omap5WDTimer2    = 0x4ae07830
	omap5WkupGPIO1   = 0x4ae07838
	omap5GPTimer1    = 0x4ae07840
	omap5GPTimer12   = 0x4ae07848
	omap5Keyboard    = 0x4ae07878
	omap5SCRM        = 0x4ae07890
	omap5RstTime     = 0x4ae07d08
	omap5ABBSetup    = 0x4ae07cdc
	omap5ABBCtrl     = 0x4ae07ce0
	omap5IrqStatMPU2 = 0x4ae06014

	omap5GPT1Base = 0x4ae18000

	omap5FuseOppMPU = 0x4a002388
	omap5LdoVBBMPU  = 0x4a002318
	omap5EfuseMPU   = 0x4a0021c4
	omap5EfuseMM    = 0x4a0021a4
	omap5EfuseCore  = 0x4a0021d8
)

// CLKCTRL optional bits set around the basic clocks
const (
	gpioOptFClkEn      = 1 << 8
	hsmmcClkSel96M     = 1 << 24
	hsmmcClkSelDiv     = 1 << 25
	gpTimer1ClkSel32K  = 1 << 24
	scrmOptFClkEnCore  = 1 << 8
	scrmOptFClkEnPer   = 1 << 9
	abbMPUTxDone       = 1 << 7
	omap5PlatResetUsec = 26000
)

// Palmas SMPS voltage registers
const (
	smps12 = 0x23
	smps45 = 0x2b
	smps6  = 0x2f
	smps7  = 0x33
	smps8  = 0x37
)

func omap5Regs() prcm.Regs {
	return prcm.Regs{
		SysClkSel:         omap5SysClkSel,
		DpllMPU:           omap5DpllMPU,
		DpllCore:          omap5DpllCore,
		DpllPer:           omap5DpllPer,
		DpllIVA:           omap5DpllIVA,
		DpllABE:           omap5DpllABE,
		DpllUSB:           omap5DpllUSB,
		ClkSelCore:        omap5ClkSelCor,
		BypClkDpllIVA:     omap5BypClkIVA,
		ABEPllRefClkSel:   omap5ABERefSel,
		MPUClkCtrl:        omap5MPUClk,
		MemifClkStCtrl:    omap5MemifDom,
		MemifEMIF1ClkCtrl: omap5EMIF1,
		MemifEMIF2ClkCtrl: omap5EMIF2,
		ShadowFreqConfig1: omap5ShadowFC1,
		L4PerClkStCtrl:    omap5L4PerDom,
		UARTClkCtrl: []reg.Addr{
			omap5UART1,
			omap5UART2,
			omap5UART3,
			omap5UART4,
		},
		RstTime:   omap5RstTime,
		TimerTLDR: omap5GPT1Base + 0x2c,
		TimerTCLR: omap5GPT1Base + 0x24,
	}
}

func omap5Dplls() dpll.Table {
	return dpll.Table{
		MPU: rows(dpll.Params{M2: dpll.Apply(1)},
			mn{125, 0},   // 12 MHz
			mn{750, 9},   // 20 MHz
			mn{1172, 12}, // 16.8 MHz
			mn{625, 7},   // 19.2 MHz
			mn{750, 12},  // 26 MHz
			mn{625, 10},  // 27 MHz
			mn{625, 15},  // 38.4 MHz
		),
		Core: rows(dpll.Params{
			M2:  dpll.Apply(2),
			M3:  dpll.Apply(5),
			H11: dpll.Apply(8),
			H12: dpll.Apply(4),
			H13: dpll.Apply(62),
			H14: dpll.Apply(5),
			H22: dpll.Apply(5),
			H23: dpll.Apply(7),
			H24: dpll.Apply(6),
		},
			mn{266, 2}, mn{266, 4}, mn{443, 6}, mn{277, 4},
			mn{368, 8}, mn{277, 9}, mn{277, 9},
		),
		Per: rows(dpll.Params{
			M2:  dpll.Apply(4),
			M3:  dpll.Apply(3),
			H11: dpll.Apply(6),
			H12: dpll.Apply(4),
			H14: dpll.Apply(2),
		},
			mn{32, 0}, mn{96, 4}, mn{160, 6}, mn{20, 0},
			mn{192, 12}, mn{256, 26}, mn{20, 1},
		),
		IVA: rows(dpll.Params{H11: dpll.Apply(5), H12: dpll.Apply(6)},
			mn{1165, 11}, mn{2011, 28}, mn{1881, 30}, mn{1165, 15},
			mn{1972, 64}, mn{1456, 26}, mn{1165, 31},
		),
		// from 32 kHz, for every system clock
		ABE: rows(dpll.Params{M2: dpll.Apply(1), M3: dpll.Apply(1)},
			mn{750, 0},
		),
		USB: rows(dpll.Params{M2: dpll.Apply(2)},
			mn{400, 4}, mn{480, 9}, mn{400, 6}, mn{400, 7},
			mn{480, 12}, mn{320, 8}, mn{400, 15},
		),
	}
}

func omap5Clocks() prcm.Clocks {
	return prcm.Clocks{
		Basic: prcm.ClockStep{
			Pre: []prcm.Bits{
				{Addr: omap5GPIO4, Set: gpioOptFClkEn},
				{Addr: omap5HSMMC1, Set: hsmmcClkSel96M},
				{Addr: omap5HSMMC1, Set: hsmmcClkSelDiv},
				{Addr: omap5GPTimer1, Set: gpTimer1ClkSel32K},
			},
			Batch: clkctrl.Batch{
				Domains: []reg.Addr{
					omap5L4PerDom,
					omap5L3InitDom,
					omap5MemifDom,
					omap5L4CfgDom,
				},
				HWAuto: []reg.Addr{
					omap5GPMC,
					omap5EMIF1,
					omap5EMIF2,
					omap5L4Cfg,
					omap5WkupGPIO1,
					omap5GPIO2,
					omap5GPIO3,
					omap5GPIO4,
				},
				Explicit: []reg.Addr{
					omap5GPTimer1,
					omap5HSMMC1,
					omap5HSMMC2,
					omap5GPTimer2,
					omap5WDTimer2,
					omap5UART3,
					omap5I2C1,
				},
				Wait: true,
			},
			Post: []prcm.Bits{
				{Addr: omap5SCRM, Set: scrmOptFClkEnPer},
				{Addr: omap5SCRM, Set: scrmOptFClkEnCore},
			},
		},
		BasicUBoot: prcm.ClockStep{
			Batch: clkctrl.Batch{
				HWAuto: []reg.Addr{
					omap5HSUSBTLL,
				},
				Explicit: []reg.Addr{
					omap5McSPI1,
					omap5I2C2,
					omap5I2C3,
					omap5I2C4,
					omap5Keyboard,
					omap5GPTimer12,
				},
				Wait: true,
			},
		},
		NonEssential: prcm.ClockStep{
			Batch: clkctrl.Batch{
				Domains: []reg.Addr{
					omap5ABEDom,
					omap5IVAHDDom,
					omap5DSSDom,
					omap5CamDom,
					omap5GPUDom,
					omap5L3MainDom,
				},
				HWAuto: []reg.Addr{
					omap5IVAHD,
					omap5SL2,
					omap5ABEL4,
				},
				Explicit: []reg.Addr{
					omap5DSS,
					omap5ISS,
					omap5GPU,
					omap5HSI,
				},
			},
		},
	}
}

func omap5ABB() *abb.Config {
	return &abb.Config{
		Fuse:       omap5FuseOppMPU,
		LdoVBB:     omap5LdoVBBMPU,
		Setup:      omap5ABBSetup,
		Control:    omap5ABBCtrl,
		TxDone:     omap5IrqStatMPU2,
		TxDoneMask: abbMPUTxDone,
		Opp:        abb.FastOpp,
	}
}

func omap5Rails(p vcore.Pmic) vcore.Rails {
	return vcore.Rails{
		MPU: &vcore.Rail{
			Name:       "mpu",
			MilliVolts: 1060,
			Reg:        smps12,
			Efuse:      &vcore.Efuse{Addr: omap5EfuseMPU, Bits: 16},
			Pmic:       p,
		},
		Core: &vcore.Rail{
			Name:       "core",
			MilliVolts: 1040,
			Reg:        smps8,
			Efuse:      &vcore.Efuse{Addr: omap5EfuseCore, Bits: 16},
			Pmic:       p,
		},
		MM: &vcore.Rail{
			Name:       "mm",
			MilliVolts: 1025,
			Reg:        smps45,
			Efuse:      &vcore.Efuse{Addr: omap5EfuseMM, Bits: 16},
			Pmic:       p,
		},
	}
}

// OMAP5432 uEVM, DDR3
func omap5uevm() *prcm.Board {
	return &prcm.Board{
		Name:          "omap5-uevm",
		Compatible:    []string{"ti,omap5-uevm"},
		Revision:      prcm.OMAP5432ES2_0,
		Regs:          omap5Regs(),
		Dplls:         omap5Dplls(),
		Rails:         omap5Rails(&pmic.Palmas{Bus: &pmic.I2C{}, Addr: pmic.SMPSAddr}),
		ABB:           omap5ABB(),
		Clocks:        omap5Clocks(),
		ResetTimeUsec: omap5PlatResetUsec,
	}
}

// OMAP5430 sEVM, LPDDR2
func omap5sevm() *prcm.Board {
	b := omap5uevm()
	b.Name = "omap5-sevm"
	b.Compatible = []string{"ti,omap5-sevm", "ti,omap5430"}
	b.Revision = prcm.OMAP5430ES2_0
	b.FreqUpdate = true
	return b
}
