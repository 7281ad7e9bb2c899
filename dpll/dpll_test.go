// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dpll

import (
	"errors"
	"fmt"
	"testing"

	"github.com/platinasystems/prcm/internal/reg"
	"github.com/platinasystems/prcm/internal/reg/sim"
	"github.com/platinasystems/prcm/refclk"
)

const base reg.Addr = 0x4a004160

var rows = []Params{
	{M: 1000, N: 11, M2: Apply(1)},
	{M: 250, N: 3, M2: Apply(2), M3: Apply(0), H11: Apply(8)},
	{M: 2047, N: 127, M2: Apply(31), H24: Apply(63)},
}

func newSim() (*sim.File, *Controller) {
	f := sim.New()
	f.DPLL(base)
	return f, New(f, reg.Waiter{Bound: 100})
}

func TestProgram(t *testing.T) {
	for _, p := range rows {
		p := p
		f, c := newSim()
		f.Set(base+DivH12, 0xabc)
		f.Set(base+DivM3, 0x5)
		if err := c.Program(base, &p, true, "mpu"); err != nil {
			t.Fatal(err)
		}
		m, n := c.MN(base)
		if m != p.M || n != p.N {
			t.Errorf("%v: M %d N %d", &p, m, n)
		}
		if want, _ := p.M2.Value(); f.Get(base+DivM2) != want {
			t.Errorf("%v: m2 %d", &p, f.Get(base+DivM2))
		}
		if f.Get(base+DivH12) != 0xabc {
			t.Errorf("%v: h12 touched", &p)
		}
		if want, ok := p.M3.Value(); ok {
			if f.Get(base+DivM3) != want {
				t.Errorf("%v: m3 %d", &p, f.Get(base+DivM3))
			}
		} else if f.Get(base+DivM3) != 0x5 {
			t.Errorf("%v: m3 touched", &p)
		}
		if s := c.State(base); s != Locked {
			t.Errorf("%v: %v", &p, s)
		}
	}
}

func TestProgramOrder(t *testing.T) {
	f, c := newSim()
	p := rows[0]
	if err := c.Program(base, &p, true, "core"); err != nil {
		t.Fatal(err)
	}
	var modes []uint32
	clksel, lock, m2 := -1, -1, -1
	for i, a := range f.Log {
		if a.Op != sim.Write {
			continue
		}
		switch a.Addr {
		case base + ClkMode:
			modes = append(modes, a.Value&EnMask)
			if a.Value&EnMask == EnLock {
				lock = i
			}
		case base + ClkSel:
			clksel = i
		case base + DivM2:
			m2 = i
		}
	}
	if len(modes) != 2 || modes[0] != EnFastRelockBypass ||
		modes[1] != EnLock {
		t.Fatalf("modes %v", modes)
	}
	if !(f.FirstWrite(base+ClkMode) < clksel && clksel < lock &&
		lock < m2) {
		t.Fatalf("bypass %d clksel %d lock %d m2 %d",
			f.FirstWrite(base+ClkMode), clksel, lock, m2)
	}
}

func TestIdempotent(t *testing.T) {
	f, c := newSim()
	p := rows[1]
	if err := c.Program(base, &p, true, "per"); err != nil {
		t.Fatal(err)
	}
	f.Clear()
	if err := c.Program(base, &p, true, "per"); err != nil {
		t.Fatal(err)
	}
	if n := f.Writes(base + ClkMode); n != 0 {
		t.Fatal(n, "mode writes on second program")
	}
	if n := f.Writes(base + DivM2); n != 1 {
		t.Fatal(n, "m2 writes on second program")
	}
}

func TestLockedByROM(t *testing.T) {
	p := rows[0]
	f, c := newSim()
	f.Locked(base, p.M<<MShift|p.N)
	if err := c.Program(base, &p, true, "mpu"); err != nil {
		t.Fatal(err)
	}
	if n := f.Writes(base + ClkMode); n != 0 {
		t.Fatal("relocked", n)
	}

	f, c = newSim()
	f.Locked(base, (p.M+1)<<MShift|p.N)
	if err := c.Program(base, &p, true, "mpu"); err != nil {
		t.Fatal(err)
	}
	if n := f.Writes(base + ClkMode); n != 2 {
		t.Fatal("mode writes", n)
	}
	if m, _ := c.MN(base); m != p.M {
		t.Fatal("M", m)
	}
}

func TestNoLock(t *testing.T) {
	f, c := newSim()
	p := rows[0]
	if err := c.Program(base, &p, false, "core"); err != nil {
		t.Fatal(err)
	}
	if v := f.Get(base+ClkMode) & EnMask; v != EnFastRelockBypass {
		t.Fatalf("mode %d", v)
	}
	if s := c.State(base); s != Programming {
		t.Fatal(s)
	}
	if err := c.Lock(base); err != nil {
		t.Fatal(err)
	}
	if s := c.State(base); s != Locked {
		t.Fatal(s)
	}
}

func TestUnused(t *testing.T) {
	f, c := newSim()
	if err := c.Program(base, nil, true, "gmac"); err != nil {
		t.Fatal(err)
	}
	if len(f.Log) != 0 {
		t.Fatal("accessed", f.Log)
	}
}

func TestLockTimeout(t *testing.T) {
	f := sim.New()
	c := New(f, reg.Waiter{Bound: 5})
	p := rows[2]
	err := c.Program(base, &p, true, "abe")
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatal("err", err)
	}
	if s := c.State(base); s != Fault {
		t.Fatal(s)
	}
	// one read for the lock check, one for bypass, five for lock
	if n := f.Reads(base + IdleSt); n != 7 {
		t.Fatal(n, "status reads")
	}
}

func TestBypassTimeout(t *testing.T) {
	f := sim.New()
	f.Set(base+IdleSt, StDpllClk)
	c := New(f, reg.Waiter{Bound: 3})
	p := rows[0]
	if c.Bypass(base) {
		t.Fatal("bypass reported with stuck status")
	}
	if err := c.Program(base, &p, true, "iva"); err != nil {
		t.Fatal(err)
	}
	if m, n := c.MN(base); m != p.M || n != p.N {
		t.Fatal("not programmed after bypass timeout", m, n)
	}
}

func TestTableRow(t *testing.T) {
	var tbl Table
	if tbl.Row(tbl.GMAC, refclk.Index26MHz) != nil {
		t.Fatal("absent set has a row")
	}
	tbl.ABE = []Params{{M: 750, N: 0}}
	if p := tbl.Row(tbl.ABE, refclk.Index38_4MHz); p == nil || p.M != 750 {
		t.Fatal("ABE", p)
	}
	tbl.MPU = rows
	if p := tbl.Row(tbl.MPU, refclk.Index20MHz); p != &tbl.MPU[1] {
		t.Fatal("MPU", p)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("short set didn't panic")
		}
	}()
	tbl.Row(tbl.MPU, refclk.Index38_4MHz)
}

func TestUSBSDDiv(t *testing.T) {
	for _, x := range []struct {
		p      Params
		sysclk refclk.Hz
		want   uint32
	}{
		{Params{M: 400, N: 15}, 38400000, 4},
		{Params{M: 400, N: 7}, 19200000, 4},
		{Params{M: 250, N: 9}, 26000000, 3},
		{Params{M: 50, N: 0}, 20000000, 4},
	} {
		if got := USBSDDiv(&x.p, x.sysclk); got != x.want {
			t.Errorf("%v at %v: %d, want %d", &x.p, x.sysclk, got,
				x.want)
		}
	}
}

func TestDDRClock(t *testing.T) {
	p := Params{M: 277, N: 4, M2: Apply(2)}
	if got := DDRClock(&p, 19200000, 2); got != 531840000 {
		t.Fatal(got)
	}
	p.M2 = Div{}
	if got := DDRClock(&p, 19200000, 2); got != 0 {
		t.Fatal(got)
	}
}

func ExampleParams_String() {
	fmt.Println(&Params{M: 1250, N: 11, M2: Apply(1), H11: Apply(0)})
	fmt.Println((*Params)(nil))
	// Output:
	// M 1250 N 11 m2 1 h11 0
	// unused
}
