// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package prcm_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/platinasystems/prcm/board"
	"github.com/platinasystems/prcm/clkctrl"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/internal/reg/sim"
	"github.com/platinasystems/prcm/pmic"
	"github.com/platinasystems/prcm/prcm"
	"github.com/platinasystems/prcm/prcm/prcmsim"
	"github.com/platinasystems/prcm/refclk"
)

const bound = 100

type machine struct {
	*prcm.PRCM
	f   *sim.File
	rec *pmic.Recorder
}

func newMachine(t *testing.T, name string,
	edit func(*prcm.Board)) *machine {
	b, err := board.New(name)
	if err != nil {
		t.Fatal(err)
	}
	f := prcmsim.New(b, refclk.Index38_4MHz)
	if edit != nil {
		edit(b)
	}
	rec := &pmic.Recorder{}
	pmic.Rebus(&b.Rails, rec)
	return &machine{
		PRCM: prcm.New(b, f, reg.Waiter{Bound: bound}),
		f:    f,
		rec:  rec,
	}
}

func (m *machine) state(t *testing.T, name string) dpll.State {
	base, _ := m.Dpll(name)
	if base == 0 {
		t.Fatal(name, "absent")
	}
	return m.Controller().State(base)
}

func (m *machine) moduleMode(a reg.Addr) clkctrl.ModuleMode {
	return clkctrl.ModuleMode(m.f.Get(a) & clkctrl.ModuleModeMask)
}

func TestInitSPL(t *testing.T) {
	m := newMachine(t, "omap5-uevm", nil)
	if err := m.Init(prcm.SPL); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"mpu", "core", "per", "usb"} {
		if s := m.state(t, name); s != dpll.Locked {
			t.Error(name, s)
		}
	}
	for _, name := range []string{"iva", "abe"} {
		if base, _ := m.Dpll(name); m.f.Writes(base) != 0 {
			t.Error(name, "programmed without EnableAll")
		}
	}
	basic := &m.Clocks.Basic
	for _, a := range basic.HWAuto {
		if mode := m.moduleMode(a); mode != clkctrl.ModuleHWAuto {
			t.Error(a, mode)
		}
	}
	for _, a := range basic.Explicit {
		if mode := m.moduleMode(a); mode != clkctrl.ModuleExplicitEnable {
			t.Error(a, mode)
		}
	}
	for _, a := range m.Clocks.BasicUBoot.Explicit {
		if m.f.Writes(a) != 0 {
			t.Error(a, "enabled by SPL")
		}
	}
	if s := fmt.Sprint(m.rec.Writes); s !=
		"[0x12.0x37=0x3c 0x12.0x23=0x3e 0x12.0x2b=0x3b]" {
		t.Error("vcores", s)
	}
	if m.f.Get(m.ABB.Setup)&1 == 0 {
		t.Error("ABB not enabled")
	}
	if v := m.f.Get(m.Regs.TimerTCLR); v != 0x2b {
		t.Errorf("timer tclr %#x", v)
	}
	if v := m.f.Get(m.Regs.RstTime); v != 851 {
		t.Error("rsttime", v)
	}
	if v := m.f.Get(m.Regs.ClkSelCore); v != prcm.CoreRatios {
		t.Errorf("clksel core %#x", v)
	}
	usb, _ := m.Dpll("usb")
	if sd := reg.Field(m.f.Get(usb+dpll.ClkSel), dpll.SDDivMask,
		dpll.SDDivShift); sd != 4 {
		t.Error("usb sd div", sd)
	}
	if s := m.Status()["dpll.mpu"]; s != "locked" {
		t.Error("status", s)
	}
}

func TestInitEnableAll(t *testing.T) {
	m := newMachine(t, "dra7-evm", nil)
	m.EnableAll = true
	if err := m.Init(prcm.AfterCH); err != nil {
		t.Fatal(err)
	}
	for _, name := range prcm.DpllNames {
		if s := m.state(t, name); s != dpll.Locked {
			t.Error(name, s)
		}
	}
	if v := m.f.Get(m.Regs.ABEPllRefClkSel); v != prcm.ABERefClkSelSysClk {
		t.Error("abe ref clksel", v)
	}
	if v := m.f.Get(m.Regs.ABEPllSysClkSel); v != prcm.ABESysClkSel2 {
		t.Error("abe sys clksel", v)
	}
	for _, d := range m.Clocks.NonEssential.Domains {
		if v := m.f.Get(d) & clkctrl.ClkTrCtrlMask; v !=
			uint32(clkctrl.HWAuto) {
			t.Error(d, v)
		}
	}
	for _, a := range m.Clocks.BasicUBoot.Explicit {
		if mode := m.moduleMode(a); mode != clkctrl.ModuleExplicitEnable {
			t.Error(a, mode)
		}
	}
	if n := len(m.rec.Writes); n != 5 {
		t.Error(n, "rails scaled")
	}
}

func TestABEFrom32K(t *testing.T) {
	m := newMachine(t, "omap5-uevm", nil)
	m.EnableAll = true
	if err := m.Init(prcm.SPL); err != nil {
		t.Fatal(err)
	}
	abe, _ := m.Dpll("abe")
	mode := m.f.Get(abe + dpll.ClkMode)
	want := uint32(dpll.DriftGuardEn | dpll.RelockRampEn | dpll.LPModeEn |
		dpll.RegM4XEn | dpll.RampRate4Clock<<dpll.RampRateShift |
		dpll.EnLock)
	if mode != want {
		t.Errorf("abe clkmode %#x, want %#x", mode, want)
	}
	if v := m.f.Get(m.Regs.ABEPllRefClkSel); v != prcm.ABERefClkSel32K {
		t.Error("abe ref clksel", v)
	}
}

func TestContexts(t *testing.T) {
	for _, x := range []struct {
		ctx          prcm.Context
		basic, uboot bool
	}{
		{prcm.SPL, true, false},
		{prcm.FromROM, true, true},
		{prcm.AfterCH, true, true},
		{prcm.Other, false, true},
	} {
		m := newMachine(t, "omap5-uevm", nil)
		if err := m.Init(x.ctx); err != nil {
			t.Fatal(x.ctx, err)
		}
		basic := m.f.Writes(m.Clocks.Basic.Explicit[0]) > 0
		uboot := m.f.Writes(m.Clocks.BasicUBoot.Explicit[0]) > 0
		if basic != x.basic || uboot != x.uboot {
			t.Error(x.ctx, "basic", basic, "uboot", uboot)
		}
		mpu, _ := m.Dpll("mpu")
		if locked := m.f.Writes(mpu) > 0; locked != x.basic {
			t.Error(x.ctx, "mpu programmed", locked)
		}
	}
}

func TestLockTimeoutStopsInit(t *testing.T) {
	m := newMachine(t, "omap5-uevm", func(b *prcm.Board) {
		b.Regs.DpllPer = 0x4a008340
	})
	err := m.Init(prcm.FromROM)
	if !errors.Is(err, dpll.ErrLockTimeout) {
		t.Fatal(err)
	}
	if !strings.Contains(err.Error(), "per") {
		t.Error(err)
	}
	if m.f.Writes(m.Regs.RstTime) != 0 {
		t.Error("init continued after fatal error")
	}
	if m.f.Writes(m.Clocks.BasicUBoot.Explicit[0]) != 0 {
		t.Error("u-boot clocks enabled after fatal error")
	}
}

func TestFreqUpdate(t *testing.T) {
	m := newMachine(t, "omap5-sevm", nil)
	if err := m.Init(prcm.SPL); err != nil {
		t.Fatal(err)
	}
	if s := m.state(t, "core"); s != dpll.Programming {
		t.Fatal("core", s)
	}
	core, _ := m.Dpll("core")
	if en := m.f.Get(core+dpll.ClkMode) & dpll.EnMask; en != dpll.EnFastRelockBypass {
		t.Fatal("core clkmode en", en)
	}
	if err := m.FreqUpdateCore(); err != nil {
		t.Fatal(err)
	}
	if s := m.state(t, "core"); s != dpll.Locked {
		t.Fatal("core", s)
	}
	if v := m.f.Get(m.Regs.ShadowFreqConfig1); v != 0x1704 {
		t.Errorf("shadow freq config1 %#x", v)
	}
	if v := m.f.Get(m.Regs.MemifClkStCtrl) & clkctrl.ClkTrCtrlMask; v !=
		uint32(clkctrl.HWAuto) {
		t.Error("memif", v)
	}
}

func TestFreqUpdateKeepsMemifAwake(t *testing.T) {
	m := newMachine(t, "omap5-sevm", func(b *prcm.Board) {
		b.Revision = prcm.OMAP5430ES1_0
	})
	if err := m.FreqUpdateCore(); err != nil {
		t.Fatal(err)
	}
	if v := m.f.Get(m.Regs.MemifClkStCtrl) & clkctrl.ClkTrCtrlMask; v !=
		uint32(clkctrl.SWWakeup) {
		t.Error("memif", v)
	}
	if n := m.f.Writes(m.Regs.MemifClkStCtrl); n != 1 {
		t.Error(n, "memif writes")
	}
}

func TestFreqUpdateTimeout(t *testing.T) {
	m := newMachine(t, "omap5-sevm", func(b *prcm.Board) {
		b.Regs.ShadowFreqConfig1 = 0x4a004264
	})
	err := m.FreqUpdateCore()
	if !errors.Is(err, prcm.ErrFreqUpdateTimeout) {
		t.Fatal(err)
	}
	if n := m.f.Reads(m.Regs.ShadowFreqConfig1); n != bound {
		t.Error(n, "polls")
	}
}

func TestConsole(t *testing.T) {
	m := newMachine(t, "omap5-uevm", nil)
	m.SetupClocksForConsole()
	dom := m.Regs.L4PerClkStCtrl
	wake, restore := m.f.FirstWrite(dom), m.f.LastWrite(dom)
	if m.f.Log[wake].Value != uint32(clkctrl.SWWakeup) ||
		m.f.Get(dom) != uint32(clkctrl.HWAuto) {
		t.Fatal("l4per domain", m.f.Log[wake], m.f.Get(dom))
	}
	for _, uart := range m.Regs.UARTClkCtrl {
		i := m.f.FirstWrite(uart)
		if i < wake || i > restore {
			t.Error(uart, "enabled outside wakeup")
		}
		if mode := m.moduleMode(uart); mode != clkctrl.ModuleExplicitEnable {
			t.Error(uart, mode)
		}
	}
}

func TestConfigureMPUDpllDCC(t *testing.T) {
	for _, x := range []struct {
		rev prcm.Revision
		dcc bool
	}{
		{prcm.OMAP4430ES2_0, true},
		{prcm.OMAP4460ES1_0, false},
		{prcm.OMAP5430ES1_0, true},
	} {
		m := newMachine(t, "omap5-uevm", func(b *prcm.Board) {
			b.Revision = x.rev
		})
		mpu, _ := m.Dpll("mpu")
		m.f.Set(mpu+dpll.ClkSel, dpll.DCCEn)
		m.f.Set(m.Regs.MPUClkCtrl, prcm.MPUClkSelEMIFDivMode)
		if err := m.ConfigureMPUDpll(); err != nil {
			t.Fatal(err)
		}
		clksel := m.f.Get(mpu + dpll.ClkSel)
		if dcc := clksel&dpll.DCCEn != 0; dcc != x.dcc {
			t.Error(x.rev, "dcc", dcc)
		}
		if s := m.state(t, "mpu"); s != dpll.Locked {
			t.Error(x.rev, s)
		}
		ctrl := m.f.Get(m.Regs.MPUClkCtrl)
		if !x.dcc && ctrl != prcm.MPUClkSelABEDivMode {
			t.Errorf("%v: mpu clkctrl %#x", x.rev, ctrl)
		}
	}
}

func TestLockDpll(t *testing.T) {
	m := newMachine(t, "omap5-uevm", nil)
	if err := m.LockDpll("iva"); err != nil {
		t.Fatal(err)
	}
	if s := m.state(t, "iva"); s != dpll.Locked {
		t.Fatal(s)
	}
	if err := m.LockDpll("ddr"); err == nil ||
		!strings.Contains(err.Error(), "unused") {
		t.Error(err)
	}
	if err := m.LockDpll("dsp"); err == nil ||
		!strings.Contains(err.Error(), "unknown") {
		t.Error(err)
	}
}

func TestDDRClock(t *testing.T) {
	for _, x := range []struct {
		board string
		hz    uint32
	}{
		{"omap5-uevm", 531840000},
		{"dra7-evm", 265920000},
	} {
		m := newMachine(t, x.board, nil)
		if hz := m.DDRClock(); hz != x.hz {
			t.Error(x.board, hz)
		}
	}
}

func TestResetTime(t *testing.T) {
	for _, x := range []struct{ usec, n uint32 }{
		{0, 0},
		{6000, 196},
		{26000, 851},
		{1000000, 0x3ff},
	} {
		if n := prcm.ResetTime(x.usec); n != x.n {
			t.Error(x.usec, n)
		}
	}
}

func TestParseContext(t *testing.T) {
	for _, s := range []string{"spl", "rom", "CH", "other"} {
		ctx, err := prcm.ParseContext(s)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.EqualFold(ctx.String(), s) {
			t.Error(s, ctx)
		}
	}
	if _, err := prcm.ParseContext("nor"); err == nil {
		t.Error("parsed invalid context")
	}
}

func ExampleRevision_String() {
	fmt.Println(prcm.OMAP5430ES2_0)
	fmt.Println(prcm.DRA752ES1_0)
	// Output:
	// OMAP5430 ES2.0
	// DRA752 ES1.0
}
