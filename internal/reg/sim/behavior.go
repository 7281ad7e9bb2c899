// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package sim

import "github.com/platinasystems/prcm/internal/reg"

// Hardware encodings the behaviors react to.
const (
	dpllEnMask   = 0x7
	dpllEnLock   = 0x7
	dpllStClk    = 1 << 0
	dpllIdlest   = 0x4
	modeMask     = 0x3
	idlestShift  = 16
	idlestMask   = 0x3 << idlestShift
	idlestFunc   = 0
	idlestDisabl = 3
)

// DPLL makes the idle status register at base+4 follow the enable mode
// written to the mode register at base: lock sets ST_DPLL_CLK, any other mode
// clears it.
func (f *File) DPLL(base reg.Addr) {
	f.OnWrite(base, func(v uint32) {
		st := f.regs[base+dpllIdlest] &^ dpllStClk
		if v&dpllEnMask == dpllEnLock {
			st |= dpllStClk
		}
		f.regs[base+dpllIdlest] = st
	})
}

// Locked presets a DPLL as already locked, e.g. by ROM code.
func (f *File) Locked(base reg.Addr, clksel uint32) {
	f.regs[base] = dpllEnLock
	f.regs[base+dpllIdlest] = dpllStClk
	f.regs[base+0xc] = clksel
}

// Module makes a CLKCTRL register report functional idle status whenever a
// non-zero module mode is written and disabled otherwise.
func (f *File) Module(a reg.Addr) {
	f.OnWrite(a, func(v uint32) {
		st := uint32(idlestDisabl)
		if v&modeMask != 0 {
			st = idlestFunc
		}
		f.regs[a] = v&^idlestMask | st<<idlestShift
	})
}

// SelfClear clears the written mask bits after each write, then runs then if
// it isn't nil.
func (f *File) SelfClear(a reg.Addr, mask uint32, then func()) {
	f.OnWrite(a, func(v uint32) {
		if v&mask != 0 {
			f.regs[a] = v &^ mask
			if then != nil {
				then()
			}
		}
	})
}
