// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import "testing"

type counter struct {
	regs  map[Addr]uint32
	reads int
}

func (c *counter) Read32(a Addr) uint32 {
	c.reads++
	return c.regs[a]
}

func (c *counter) Write32(a Addr, v uint32) { c.regs[a] = v }
func (c *counter) Read16(a Addr) uint16     { return uint16(c.Read32(a)) }

func TestClrSetBits(t *testing.T) {
	c := &counter{regs: map[Addr]uint32{0x10: 0xff00ff00}}
	ClrSetBits(c, 0x10, 0x0000ff00, 0x00000055)
	if got := c.regs[0x10]; got != 0xff000055 {
		t.Fatalf("got %#x", got)
	}
	SetBits(c, 0x10, 1<<31)
	ClrBits(c, 0x10, 0xff000000)
	if got := c.regs[0x10]; got != 0x55 {
		t.Fatalf("got %#x", got)
	}
	ClrSetField(c, 0x10, 0x7<<4, 4, 0xf)
	if got := c.regs[0x10]; got != 0x75 {
		t.Fatalf("field overflow leaked: %#x", got)
	}
}

func TestWaitBound(t *testing.T) {
	for _, bound := range []int{1, 2, 7, 1000} {
		c := &counter{regs: map[Addr]uint32{0x4: 0}}
		w := Waiter{Bound: bound}
		if w.OnValue(c, 1, 1, 0x4) {
			t.Fatal("unexpected match")
		}
		if c.reads != bound {
			t.Errorf("bound %d: %d reads", bound, c.reads)
		}
	}
}

func TestWaitMatch(t *testing.T) {
	c := &counter{regs: map[Addr]uint32{0x4: 0x3}}
	if !DefaultWaiter.OnValue(c, 0x1, 0x1, 0x4) {
		t.Fatal("no match")
	}
	if c.reads != 1 {
		t.Fatalf("%d reads", c.reads)
	}
	if v, ok := (Waiter{Bound: 3}).For(c, 0x4, func(v uint32) bool {
		return v == 0x3
	}); !ok || v != 0x3 {
		t.Fatalf("For: %#x %v", v, ok)
	}
}
