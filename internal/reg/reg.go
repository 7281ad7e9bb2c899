// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package reg provides 32-bit memory mapped register access for the power,
// reset and clock manager and its neighbors.
//
// A Bus is injected into every controller so the same sequencing runs against
// /dev/mem (see devmem) or a simulated register file (see sim).
package reg

import (
	"fmt"
	"time"
)

// LDelay is the poll bound used for DPLL, clock module and frequency update
// waits.
const LDelay = 1000000

type Addr uint32

func (a Addr) String() string { return fmt.Sprintf("0x%08x", uint32(a)) }

type Bus interface {
	Read32(Addr) uint32
	Write32(Addr, uint32)
	// Read16 returns the half word at a 2-byte aligned address.
	Read16(Addr) uint16
}

// ClrSetBits is the read-modify-write primitive; clr is applied before set.
func ClrSetBits(b Bus, a Addr, clr, set uint32) {
	b.Write32(a, b.Read32(a)&^clr|set)
}

func SetBits(b Bus, a Addr, set uint32) { ClrSetBits(b, a, 0, set) }
func ClrBits(b Bus, a Addr, clr uint32) { ClrSetBits(b, a, clr, 0) }

// ClrSetField replaces the field selected by mask with v << shift.
func ClrSetField(b Bus, a Addr, mask uint32, shift uint, v uint32) {
	ClrSetBits(b, a, mask, (v<<shift)&mask)
}

func Field(v, mask uint32, shift uint) uint32 { return (v & mask) >> shift }

// Waiter busy polls a register for at most Bound reads with Delay between
// reads. There is no yielding to other work and no retry after a timeout.
type Waiter struct {
	Bound int
	Delay time.Duration
}

var DefaultWaiter = Waiter{Bound: LDelay}

// For polls a until done returns true for the read value. It returns the last
// value read and false after exactly Bound unsatisfied reads.
func (w Waiter) For(b Bus, a Addr, done func(v uint32) bool) (uint32, bool) {
	var v uint32
	bound := w.Bound
	if bound <= 0 {
		bound = 1
	}
	for i := 0; i < bound; i++ {
		if i > 0 && w.Delay > 0 {
			time.Sleep(w.Delay)
		}
		v = b.Read32(a)
		if done(v) {
			return v, true
		}
	}
	return v, false
}

// OnValue polls until (read & mask) == value.
func (w Waiter) OnValue(b Bus, mask, value uint32, a Addr) bool {
	_, ok := w.For(b, a, func(v uint32) bool { return v&mask == value })
	return ok
}
