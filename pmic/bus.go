// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pmic

import (
	"errors"
	"fmt"

	"github.com/platinasystems/i2c"
	"github.com/platinasystems/prcm/internal/reg"
)

// Writer is the secondary bus a PMIC is reached through.
type Writer interface {
	// Init is idempotent.
	Init() error
	WriteByte(addr, reg, v uint8) error
}

// I2C is a Linux i2c-dev bus.
type I2C struct {
	Index int

	initialized bool
	bus         i2c.Bus
}

func (b *I2C) Init() error {
	if b.initialized {
		return nil
	}
	if err := b.bus.Open(b.Index); err != nil {
		return fmt.Errorf("i2c-%d: %w", b.Index, err)
	}
	b.initialized = true
	return nil
}

func (b *I2C) WriteByte(addr, r, v uint8) error {
	var data i2c.SMBusData
	if err := b.Init(); err != nil {
		return err
	}
	if err := b.bus.ForceSlaveAddress(int(addr)); err != nil {
		return fmt.Errorf("i2c-%d.%#x: %w", b.Index, addr, err)
	}
	data[0] = v
	return b.bus.Do(i2c.Write, r, i2c.ByteData, &data)
}

func (b *I2C) Close() {
	if b.initialized {
		b.bus.Close()
		b.initialized = false
	}
}

var ErrVCTimeout = errors.New("voltage controller bypass timeout")

// PRM_VC_VAL_BYPASS
const (
	VCSlaveAddrShift = 0
	VCSlaveAddrMask  = 0x7f
	VCRegAddrShift   = 8
	VCRegAddrMask    = 0xff
	VCDataShift      = 16
	VCDataMask       = 0xff
	VCValid          = 1 << 24
)

// PRM_VC_CFG_I2C_CLK
const (
	VCSCLHShift = 0
	VCSCLLShift = 8
)

// VCChannelKHz is the voltage controller's I2C channel rate.
const VCChannelKHz = 400

// VC is the PRM voltage controller's I2C channel driven in bypass mode.
type VC struct {
	Bus        reg.Bus
	Waiter     reg.Waiter
	CfgI2CClk  reg.Addr
	CfgI2CMode reg.Addr
	ValBypass  reg.Addr
	SysClkHz   uint32

	initialized bool
}

func (vc *VC) Init() error {
	if vc.initialized {
		return nil
	}
	khz := vc.SysClkHz / 1000
	hi := khz*4/VCChannelKHz/10 - 5
	lo := khz*6/VCChannelKHz/10 - 7
	vc.Bus.Write32(vc.CfgI2CClk, hi<<VCSCLHShift|lo<<VCSCLLShift)
	// standard mode, no advanced features
	vc.Bus.Write32(vc.CfgI2CMode, 0)
	vc.initialized = true
	return nil
}

func (vc *VC) WriteByte(addr, r, v uint8) error {
	if err := vc.Init(); err != nil {
		return err
	}
	x := (uint32(addr)&VCSlaveAddrMask)<<VCSlaveAddrShift |
		(uint32(r)&VCRegAddrMask)<<VCRegAddrShift |
		(uint32(v)&VCDataMask)<<VCDataShift
	vc.Bus.Write32(vc.ValBypass, x)
	vc.Bus.Write32(vc.ValBypass, x|VCValid)
	if !vc.Waiter.OnValue(vc.Bus, VCValid, 0, vc.ValBypass) {
		return fmt.Errorf("%#x.%#x: %w", addr, r, ErrVCTimeout)
	}
	return nil
}
