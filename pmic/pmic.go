// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pmic provides the power management ICs that supply SoC voltage
// rails.
package pmic

import (
	"fmt"

	"github.com/platinasystems/prcm/vcore"
)

// Slave addresses.
const (
	SMPSAddr      = 0x12
	TPS659038Addr = 0x58
	TPS62361Addr  = 0x60
)

// Palmas covers the TWL6035/TPS659038/TPS65917 SMPS family.
type Palmas struct {
	Bus  Writer
	Addr uint8
	// Recalib, if set, runs after every rail is scaled.
	Recalib func() error
}

func (p *Palmas) BusInit() error { return p.Bus.Init() }

func (p *Palmas) Write(addr, r, v uint8) error {
	return p.Bus.WriteByte(addr, r, v)
}

func (p *Palmas) Data() vcore.Data {
	return vcore.Data{
		Addr:           p.Addr,
		StepMicroVolts: 10000,
		BaseMicroVolts: 500000,
		StartCode:      6,
	}
}

func (p *Palmas) Recalibrate() error {
	if p.Recalib == nil {
		return nil
	}
	return p.Recalib()
}

// TWL6030 is reached through the voltage controller's bypass channel.
type TWL6030 struct {
	Bus  Writer
	Addr uint8
}

func (p *TWL6030) BusInit() error { return p.Bus.Init() }

func (p *TWL6030) Write(addr, r, v uint8) error {
	return p.Bus.WriteByte(addr, r, v)
}

func (p *TWL6030) Data() vcore.Data {
	return vcore.Data{
		Addr:           p.Addr,
		StepMicroVolts: 12660,
		BaseMicroVolts: 607700,
		StartCode:      1,
	}
}

// TPS62361 selects its voltage set register with a GPIO line.
type TPS62361 struct {
	Bus  Writer
	Addr uint8
	// Pin names the VSEL0 GPIO.
	Pin string
	// Line is found by Pin on Request if nil.
	Line Line
}

func (p *TPS62361) BusInit() error { return p.Bus.Init() }

func (p *TPS62361) Write(addr, r, v uint8) error {
	return p.Bus.WriteByte(addr, r, v)
}

func (p *TPS62361) Data() vcore.Data {
	return vcore.Data{
		Addr:           p.Addr,
		StepMicroVolts: 10000,
		BaseMicroVolts: 500000,
	}
}

// Request finds the select line, if not given, and makes it an output.
func (p *TPS62361) Request() error {
	if p.Line == nil {
		l, err := FindLine(p.Pin)
		if err != nil {
			return err
		}
		p.Line = l
	}
	if err := p.Line.SetDirection(); err != nil {
		return fmt.Errorf("%s: %w", p.Pin, err)
	}
	return nil
}

func (p *TPS62361) Select(v bool) error {
	return p.Line.SetValue(v)
}
