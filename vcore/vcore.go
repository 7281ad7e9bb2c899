// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package vcore scales the SoC voltage rails through an external PMIC.
package vcore

import (
	"fmt"
	"strings"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
)

var Debug = dbg.NoOp

// Data describes the code space of one PMIC voltage register.
type Data struct {
	Addr           uint8 // bus address
	StepMicroVolts uint32
	BaseMicroVolts uint32
	StartCode      uint32
}

// Pmic is implemented once per PMIC variant.
type Pmic interface {
	BusInit() error
	Write(addr, reg, v uint8) error
	Data() Data
}

// Selector is a Pmic with a rail-select GPIO that must be low while a
// voltage register is written. A rail whose line can't be requested or
// driven low is left unscaled.
type Selector interface {
	Request() error
	Select(v bool) error
}

// Recalibrator is a Pmic needing an I/O recalibration after scaling.
type Recalibrator interface {
	Recalibrate() error
}

// Efuse locates a factory trimmed voltage in millivolts.
type Efuse struct {
	Addr reg.Addr
	Bits int // 16 or 32
}

type Rail struct {
	Name       string
	MilliVolts uint32
	Reg        uint8 // PMIC register
	Efuse      *Efuse
	Pmic       Pmic
}

func (r *Rail) String() string {
	if r.Efuse != nil {
		return fmt.Sprintf("%s %d mV reg %#x efuse %v/%d", r.Name,
			r.MilliVolts, r.Reg, r.Efuse.Addr, r.Efuse.Bits)
	}
	return fmt.Sprintf("%s %d mV reg %#x", r.Name, r.MilliVolts, r.Reg)
}

// Rails are the rails of a board; a nil or zero rail is unused.
type Rails struct {
	Core, MPU, MM, GPU, EVE, IVA *Rail
}

// Each calls f for every present rail in scaling order.
func (rails *Rails) Each(f func(*Rail)) {
	for _, r := range []*Rail{
		rails.Core,
		rails.MPU,
		rails.MM,
		rails.GPU,
		rails.EVE,
		rails.IVA,
	} {
		if r != nil {
			f(r)
		}
	}
}

// ByName returns the named rail, or nil.
func (rails *Rails) ByName(name string) (rail *Rail) {
	rails.Each(func(r *Rail) {
		if strings.EqualFold(r.Name, name) {
			rail = r
		}
	})
	return
}

// OffsetCode rounds up so the programmed voltage is never below target.
func OffsetCode(uv uint32, d Data) uint32 {
	var delta uint32
	if uv > d.BaseMicroVolts {
		delta = uv - d.BaseMicroVolts
	}
	return (delta+d.StepMicroVolts-1)/d.StepMicroVolts + d.StartCode
}

// Optimize returns the rail's efuse trimmed voltage if fused, otherwise its
// nominal voltage.
func Optimize(bus reg.Bus, r *Rail) uint32 {
	if r.MilliVolts == 0 {
		return 0
	}
	if r.Efuse == nil || r.Efuse.Addr == 0 {
		return r.MilliVolts
	}
	var mv uint32
	switch r.Efuse.Bits {
	case 16:
		mv = uint32(bus.Read16(r.Efuse.Addr))
	case 32:
		mv = bus.Read32(r.Efuse.Addr)
	default:
		log.Print("err", "efuse ", r.Efuse.Addr, " bits=",
			r.Efuse.Bits, " unknown")
		return r.MilliVolts
	}
	if mv == 0 {
		log.Print("err", "efuse ", r.Efuse.Addr, " bits=",
			r.Efuse.Bits, " val=0, using ", r.MilliVolts)
		return r.MilliVolts
	}
	Debug.Logf("%s efuse %v bits=%d Vnom=%d, using efuse value %d",
		r.Name, r.Efuse.Addr, r.Efuse.Bits, r.MilliVolts, mv)
	return mv
}

// Errors collects the per rail failures of ScaleAll.
type Errors []error

func (errs Errors) Error() string {
	s := make([]string, len(errs))
	for i, err := range errs {
		s[i] = err.Error()
	}
	return strings.Join(s, "; ")
}

type Sequencer struct {
	Bus reg.Bus
}

// Scale programs one PMIC register to mv millivolts. Failures are logged
// and returned; none are fatal to the boot.
func (seq *Sequencer) Scale(r uint8, mv uint32, p Pmic) error {
	if mv == 0 {
		return nil
	}
	if err := p.BusInit(); err != nil {
		log.Print("err", "pmic bus init: ", err)
		return err
	}
	sel, hasSel := p.(Selector)
	if hasSel {
		if err := sel.Request(); err != nil {
			log.Print("err", "pmic gpio request failed: ", err)
			return err
		}
		if err := sel.Select(false); err != nil {
			log.Print("err", "pmic gpio select failed: ", err)
			return err
		}
	}
	d := p.Data()
	code := OffsetCode(mv*1000, d)
	Debug.Logf("scale vcore reg %#x volt %d offset code %#x", r, mv, code)
	err := p.Write(d.Addr, r, uint8(code))
	if err != nil {
		log.Print("err", fmt.Sprintf("scaling voltage failed for %#x: ",
			r), err)
		err = fmt.Errorf("reg %#x: %w", r, err)
	}
	if hasSel {
		if serr := sel.Select(true); serr != nil {
			log.Print("err", "pmic gpio select failed: ", serr)
			if err == nil {
				err = serr
			}
		}
	}
	return err
}

// ScaleRail scales one rail to its optimized voltage.
func (seq *Sequencer) ScaleRail(r *Rail) error {
	if r == nil || r.Pmic == nil {
		return nil
	}
	if err := seq.Scale(r.Reg, Optimize(seq.Bus, r), r.Pmic); err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	return nil
}

// ScaleAll scales core then MPU, runs afterMPU (if any) while the MPU rail
// is settled, then scales the remaining rails. It never stops early.
func (seq *Sequencer) ScaleAll(rails *Rails, afterMPU func()) error {
	var errs Errors
	scale := func(r *Rail) {
		if err := seq.ScaleRail(r); err != nil {
			errs = append(errs, err)
		}
	}
	scale(rails.Core)
	scale(rails.MPU)
	if afterMPU != nil {
		afterMPU()
	}
	for _, r := range []*Rail{rails.MM, rails.GPU, rails.EVE, rails.IVA} {
		scale(r)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Recalibrate runs the core rail PMIC's I/O recalibration, if it has one.
func Recalibrate(rails *Rails) error {
	if rails.Core == nil {
		return nil
	}
	if rc, ok := rails.Core.Pmic.(Recalibrator); ok {
		return rc.Recalibrate()
	}
	return nil
}
