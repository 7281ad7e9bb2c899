// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package clkctrl gates clock domains and clock modules.
//
// A domain is forced awake (SW_WKUP) while its modules are enabled and then
// returned to hardware supervision (HW_AUTO). A module is enabled either under
// hardware supervision or explicitly and may be polled until its idle status
// reports it functional.
package clkctrl

import (
	"fmt"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
)

var Debug = dbg.NoOp

// MaxList bounds each address list of a Batch.
const MaxList = 100

// CM_*_CLKSTCTRL
const (
	ClkTrCtrlShift = 0
	ClkTrCtrlMask  = 0x3 << ClkTrCtrlShift
)

type DomainMode uint32

const (
	NoSleep DomainMode = iota
	SWSleep
	SWWakeup
	HWAuto
)

func (m DomainMode) String() string {
	return [...]string{"no-sleep", "sw-sleep", "sw-wakeup", "hw-auto"}[m&3]
}

// CM_*_CLKCTRL
const (
	ModuleModeShift = 0
	ModuleModeMask  = 0x3 << ModuleModeShift
	IdleStShift     = 16
	IdleStMask      = 0x3 << IdleStShift
)

type ModuleMode uint32

const (
	ModuleDisabled ModuleMode = iota
	ModuleHWAuto
	ModuleExplicitEnable
)

func (m ModuleMode) String() string {
	return [...]string{"disabled", "hw-auto", "explicit-en", "reserved"}[m&3]
}

type IdleSt uint32

const (
	IdleStFunctional IdleSt = iota
	IdleStTransitioning
	IdleStIdle
	IdleStDisabled
)

func (s IdleSt) String() string {
	return [...]string{"functional", "transitioning", "idle", "disabled"}[s&3]
}

// Module reads a CLKCTRL register's mode and idle status.
func Module(bus reg.Bus, a reg.Addr) (ModuleMode, IdleSt) {
	v := bus.Read32(a)
	return ModuleMode(reg.Field(v, ModuleModeMask, ModuleModeShift)),
		IdleSt(reg.Field(v, IdleStMask, IdleStShift))
}

// Batch lists the domains and modules of one enable step. A zero address
// ends a list early.
type Batch struct {
	Domains  []reg.Addr
	HWAuto   []reg.Addr
	Explicit []reg.Addr
	// Wait polls each module until enabled.
	Wait bool
}

type Controller struct {
	Bus    reg.Bus
	Waiter reg.Waiter
}

func (c *Controller) EnableDomain(a reg.Addr, mode DomainMode) {
	reg.ClrSetField(c.Bus, a, ClkTrCtrlMask, ClkTrCtrlShift, uint32(mode))
	Debug.Logf("enable clock domain %v %v", a, mode)
}

func (c *Controller) EnableModule(a reg.Addr, mode ModuleMode, wait bool) bool {
	reg.ClrSetField(c.Bus, a, ModuleModeMask, ModuleModeShift,
		uint32(mode))
	Debug.Logf("enable clock module %v %v", a, mode)
	if wait {
		return c.WaitForEnable(a)
	}
	return true
}

// WaitForEnable polls the module's idle status until it is neither disabled
// nor transitioning. Some modules never settle in certain configurations so a
// timeout is logged and reported, not fatal.
func (c *Controller) WaitForEnable(a reg.Addr) bool {
	v, ok := c.Waiter.For(c.Bus, a, func(v uint32) bool {
		switch IdleSt(reg.Field(v, IdleStMask, IdleStShift)) {
		case IdleStDisabled, IdleStTransitioning:
			return false
		}
		return true
	})
	if !ok {
		log.Print("err", "clock enable failed for ", a,
			fmt.Sprintf(" idlest %#x", v))
	}
	return ok
}

func each(addrs []reg.Addr, f func(reg.Addr)) {
	for i := 0; i < len(addrs) && i < MaxList && addrs[i] != 0; i++ {
		f(addrs[i])
	}
}

// EnableClocks wakes every domain, enables every module, then returns every
// domain to HW_AUTO. Each phase completes before the next so no module is
// gated off mid-transition.
func (c *Controller) EnableClocks(b Batch) {
	each(b.Domains, func(a reg.Addr) {
		c.EnableDomain(a, SWWakeup)
	})
	each(b.HWAuto, func(a reg.Addr) {
		c.EnableModule(a, ModuleHWAuto, b.Wait)
	})
	each(b.Explicit, func(a reg.Addr) {
		c.EnableModule(a, ModuleExplicitEnable, b.Wait)
	})
	each(b.Domains, func(a reg.Addr) {
		c.EnableDomain(a, HWAuto)
	})
}
