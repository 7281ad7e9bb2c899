// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package refclk resolves which system reference oscillator is fitted.
//
// The resolved Index selects the row of every per-reference-clock DPLL
// parameter set.
package refclk

import (
	"fmt"
	"strconv"

	"github.com/platinasystems/prcm/internal/reg"
)

type Index uint8

const (
	Index12MHz Index = iota
	Index20MHz
	Index16_8MHz
	Index19_2MHz
	Index26MHz
	Index27MHz
	Index38_4MHz
	NIndex
)

type Hz uint32

func (hz Hz) KHz() uint32 { return uint32(hz) / 1000 }

func (hz Hz) String() string {
	return strconv.FormatFloat(float64(hz)/1e6, 'f', -1, 64) + " MHz"
}

// Table is the ordered set of supported oscillator frequencies.
var Table = [NIndex]Hz{
	12000000,
	20000000,
	16800000,
	19200000,
	26000000,
	27000000,
	38400000,
}

func (i Index) String() string {
	if i >= NIndex {
		return fmt.Sprint("invalid(", int(i), ")")
	}
	return Table[i].String()
}

// SysClkSelMask selects the CM_SYS_CLKSEL field; its value is Index+1.
const SysClkSelMask = 0x7

// A Resolver yields the reference clock index. Boards that know better than
// the default silicon detection supply their own.
type Resolver interface {
	Index() Index
}

// Default reads CM_SYS_CLKSEL, except on first silicon whose ROM calibration
// of the system clock is unreliable; then it returns BuggyIndex.
type Default struct {
	Bus        reg.Bus
	SysClkSel  reg.Addr
	Buggy      bool
	BuggyIndex Index
}

func (d Default) Index() Index {
	if d.Buggy {
		return d.BuggyIndex
	}
	return Index(d.Bus.Read32(d.SysClkSel)&SysClkSelMask) - 1
}

// Fixed is a board override for an oscillator known at build time.
type Fixed Index

func (f Fixed) Index() Index { return Index(f) }

// Cache resolves once and then returns the same index.
type Cache struct {
	Resolver
	valid bool
	index Index
}

func (c *Cache) Index() Index {
	if !c.valid {
		c.index = c.Resolver.Index()
		c.valid = true
	}
	return c.index
}

// Frequency of the resolved reference clock. An index outside Table means
// misconfigured board data and panics.
func Frequency(r Resolver) Hz {
	i := r.Index()
	if i >= NIndex {
		panic(fmt.Errorf("refclk: index %d out of range [0, %d)",
			int(i), int(NIndex)))
	}
	return Table[i]
}
