// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dpll

import (
	"errors"
	"fmt"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
)

var Debug = dbg.NoOp

// ErrLockTimeout is fatal; whatever the DPLL clocks is unusable.
var ErrLockTimeout = errors.New("DPLL locking failed")

type State int

const (
	Unlocked State = iota // in bypass, or never programmed
	Programming
	Locking
	Locked
	Fault
)

func (s State) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case Programming:
		return "programming"
	case Locking:
		return "locking"
	case Locked:
		return "locked"
	case Fault:
		return "fault"
	}
	return fmt.Sprint("state(", int(s), ")")
}

// Controller sequences DPLL register blocks identified by their base
// address.
type Controller struct {
	Bus    reg.Bus
	Waiter reg.Waiter

	states map[reg.Addr]State
}

func New(bus reg.Bus, w reg.Waiter) *Controller {
	return &Controller{
		Bus:    bus,
		Waiter: w,
		states: make(map[reg.Addr]State),
	}
}

// State is the last transition made by this controller, or Locked/Unlocked
// per hardware status for a DPLL it hasn't touched.
func (c *Controller) State(base reg.Addr) State {
	if s, found := c.states[base]; found {
		return s
	}
	if c.IsLocked(base) {
		return Locked
	}
	return Unlocked
}

// Resync drops the recorded state of a DPLL changed by other means, such as
// the memory frequency update, so State again reflects hardware status.
func (c *Controller) Resync(base reg.Addr) { delete(c.states, base) }

func (c *Controller) set(base reg.Addr, s State) {
	if c.states == nil {
		c.states = make(map[reg.Addr]State)
	}
	c.states[base] = s
}

func (c *Controller) IsLocked(base reg.Addr) bool {
	return c.Bus.Read32(base+IdleSt)&StDpllClk != 0
}

// MN returns the currently programmed multiplier and divider.
func (c *Controller) MN(base reg.Addr) (m, n uint32) {
	v := c.Bus.Read32(base + ClkSel)
	return reg.Field(v, MMask, MShift), reg.Field(v, NMask, NShift)
}

// Bypass puts the DPLL in fast relock bypass and waits for it to report
// unlocked. Some platforms report stale status here so a timeout is only
// logged; the result is whether bypass was observed.
func (c *Controller) Bypass(base reg.Addr) bool {
	reg.ClrSetField(c.Bus, base+ClkMode, EnMask, EnShift,
		EnFastRelockBypass)
	c.set(base, Unlocked)
	if !c.Waiter.OnValue(c.Bus, StDpllClk, 0, base+IdleSt) {
		log.Print("err", "bypassing DPLL failed ", base)
		return false
	}
	return true
}

// Lock enables the DPLL and waits for lock.
func (c *Controller) Lock(base reg.Addr) error {
	c.lock(base)
	return c.waitForLock(base, base.String())
}

func (c *Controller) lock(base reg.Addr) {
	reg.ClrSetField(c.Bus, base+ClkMode, EnMask, EnShift, EnLock)
	c.set(base, Locking)
}

func (c *Controller) waitForLock(base reg.Addr, name string) error {
	if !c.Waiter.OnValue(c.Bus, StDpllClk, StDpllClk, base+IdleSt) {
		c.set(base, Fault)
		log.Print("err", "DPLL locking failed for ", name, " ", base)
		return fmt.Errorf("%s %v: %w", name, base, ErrLockTimeout)
	}
	c.set(base, Locked)
	return nil
}

// SetupPostDividers writes only the dividers that p applies.
func (c *Controller) SetupPostDividers(base reg.Addr, p *Params) {
	for _, pd := range p.postDividers() {
		if v, ok := pd.div.Value(); ok {
			c.Bus.Write32(base+pd.off, v)
		}
	}
}

// Program brings the DPLL at base to p. A nil p is a DPLL unused on this
// board. If the DPLL is already locked at p's M and N, as left by ROM code or
// an earlier stage, it isn't relocked and only the post-dividers are written.
// Without lock the DPLL is left programmed for a later lock, e.g. by the
// memory frequency update.
//
// Only a lock timeout is returned; it wraps ErrLockTimeout.
func (c *Controller) Program(base reg.Addr, p *Params, lock bool,
	name string) error {
	if p == nil {
		return nil
	}
	clksel := c.Bus.Read32(base + ClkSel)
	if c.IsLocked(base) {
		m := reg.Field(clksel, MMask, MShift)
		n := reg.Field(clksel, NMask, NShift)
		if m == p.M && n == p.N {
			Debug.Logf("%s DPLL already locked with ideal M %d N %d",
				name, m, n)
			c.set(base, Locked)
			c.SetupPostDividers(base, p)
			if lock {
				return c.waitForLock(base, name)
			}
			return nil
		}
		Debug.Logf("%s DPLL locked, but not for ideal M %d N %d; have M %d N %d",
			name, p.M, p.N, m, n)
	}

	c.Bypass(base)

	clksel &^= MMask | NMask
	clksel |= (p.M << MShift) & MMask
	clksel |= (p.N << NShift) & NMask
	c.Bus.Write32(base+ClkSel, clksel)
	c.set(base, Programming)

	if lock {
		c.lock(base)
	}

	c.SetupPostDividers(base, p)

	if lock {
		return c.waitForLock(base, name)
	}
	return nil
}
