// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pmic

import (
	"fmt"

	"github.com/platinasystems/prcm/vcore"
)

// Recorder is a Writer and Line that keeps what would have been sent.
// Outputs counts SetDirection calls.
type Recorder struct {
	Inits   int
	Outputs int
	Writes  []Write
	Lines   []bool
}

type Write struct {
	Addr, Reg, Value uint8
}

func (w Write) String() string {
	return fmt.Sprintf("%#x.%#x=%#x", w.Addr, w.Reg, w.Value)
}

func (r *Recorder) Init() error {
	r.Inits++
	return nil
}

func (r *Recorder) WriteByte(addr, reg, v uint8) error {
	r.Writes = append(r.Writes, Write{addr, reg, v})
	return nil
}

func (r *Recorder) SetDirection() error {
	r.Outputs++
	return nil
}

func (r *Recorder) SetValue(v bool) error {
	r.Lines = append(r.Lines, v)
	return nil
}

// Rebus moves the PMIC of every rail to w. A rail-select line is also
// moved if w is a Line.
func Rebus(rails *vcore.Rails, w Writer) {
	rails.Each(func(r *vcore.Rail) {
		switch p := r.Pmic.(type) {
		case *Palmas:
			p.Bus = w
		case *TWL6030:
			p.Bus = w
		case *TPS62361:
			p.Bus = w
			if l, ok := w.(Line); ok {
				p.Line = l
			}
		}
	})
}

// BusOf returns the bus a rail's PMIC is reached through, if known.
func BusOf(p vcore.Pmic) Writer {
	switch p := p.(type) {
	case *Palmas:
		return p.Bus
	case *TWL6030:
		return p.Bus
	case *TPS62361:
		return p.Bus
	}
	return nil
}

// VCs returns the distinct voltage controllers reaching the rails' PMICs.
func VCs(rails *vcore.Rails) []*VC {
	var vcs []*VC
	rails.Each(func(r *vcore.Rail) {
		vc, ok := BusOf(r.Pmic).(*VC)
		if !ok {
			return
		}
		for _, x := range vcs {
			if x == vc {
				return
			}
		}
		vcs = append(vcs, vc)
	})
	return vcs
}

// Close releases the rails' i2c-dev buses.
func Close(rails *vcore.Rails) {
	rails.Each(func(r *vcore.Rail) {
		if b, ok := BusOf(r.Pmic).(*I2C); ok {
			b.Close()
		}
	})
}
