// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package sim provides a register file that stands in for PRCM hardware.
//
// Every access is logged in order. Behaviors attached with DPLL, Module and
// SelfClear model the status bits that real silicon updates on its own so a
// full bring-up sequence completes without hardware.
package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/platinasystems/prcm/internal/reg"
)

type Op int

const (
	Read Op = iota
	Write
)

func (op Op) String() string {
	if op == Write {
		return "w"
	}
	return "r"
}

type Access struct {
	Op
	Addr  reg.Addr
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s %s %#08x", a.Op, a.Addr, a.Value)
}

type File struct {
	regs    map[reg.Addr]uint32
	onWrite map[reg.Addr][]func(v uint32)
	// Log of every Read32/Write32 since New or Clear.
	Log []Access
}

func New() *File {
	return &File{
		regs:    make(map[reg.Addr]uint32),
		onWrite: make(map[reg.Addr][]func(v uint32)),
	}
}

func (f *File) Read32(a reg.Addr) uint32 {
	v := f.regs[a]
	f.Log = append(f.Log, Access{Read, a, v})
	return v
}

func (f *File) Write32(a reg.Addr, v uint32) {
	f.regs[a] = v
	f.Log = append(f.Log, Access{Write, a, v})
	for _, fn := range f.onWrite[a] {
		fn(v)
	}
}

func (f *File) Read16(a reg.Addr) uint16 {
	v := f.Read32(a &^ 3)
	if a&2 != 0 {
		v >>= 16
	}
	return uint16(v)
}

// Set pokes a value without logging or triggering behaviors.
func (f *File) Set(a reg.Addr, v uint32) { f.regs[a] = v }

// Get peeks a value without logging.
func (f *File) Get(a reg.Addr) uint32 { return f.regs[a] }

// OnWrite appends fn to the behaviors run after each write of a.
func (f *File) OnWrite(a reg.Addr, fn func(v uint32)) {
	f.onWrite[a] = append(f.onWrite[a], fn)
}

func (f *File) Clear() { f.Log = f.Log[:0] }

func (f *File) Writes(a reg.Addr) (n int) {
	for _, x := range f.Log {
		if x.Op == Write && x.Addr == a {
			n++
		}
	}
	return
}

func (f *File) Reads(a reg.Addr) (n int) {
	for _, x := range f.Log {
		if x.Op == Read && x.Addr == a {
			n++
		}
	}
	return
}

// FirstWrite returns the log index of the first write to a or -1.
func (f *File) FirstWrite(a reg.Addr) int {
	for i, x := range f.Log {
		if x.Op == Write && x.Addr == a {
			return i
		}
	}
	return -1
}

// LastWrite returns the log index of the last write to a or -1.
func (f *File) LastWrite(a reg.Addr) int {
	for i := len(f.Log) - 1; i >= 0; i-- {
		if f.Log[i].Op == Write && f.Log[i].Addr == a {
			return i
		}
	}
	return -1
}

// Dump lists the non-zero registers in address order.
func (f *File) Dump() string {
	addrs := make([]reg.Addr, 0, len(f.regs))
	for a, v := range f.regs {
		if v != 0 {
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var sb strings.Builder
	for _, a := range addrs {
		fmt.Fprintf(&sb, "%s: %#08x\n", a, f.regs[a])
	}
	return sb.String()
}
