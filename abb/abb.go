// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package abb sets up the adaptive body-bias LDO of a voltage domain.
package abb

import (
	"errors"

	"github.com/platinasystems/log"
	"github.com/platinasystems/prcm/internal/dbg"
	"github.com/platinasystems/prcm/internal/reg"
)

var Debug = dbg.NoOp

var ErrTimeout = errors.New("ABB: timeout waiting tranxdone")

// Settling time in µs and LDO clock cycles per tick.
const (
	SettlingTime = 50
	ClockCycles  = 16
)

// OPP fuse
const (
	FuseVSetMask   = 0x1f
	FuseEnableMask = 1 << 10
)

// PRM_ABBLDO_*_SETUP
const (
	SetupSR2En        = 1 << 0
	SetupActiveRBBSel = 1 << 1
	SetupActiveFBBSel = 1 << 2
	SetupSR2WtCntMask = 0xff << 8
	SetupSR2WtCntSh   = 8
)

// PRM_ABBLDO_*_CTRL
const (
	ControlSlowOppSel = 1 << 0
	ControlFastOppSel = 1 << 1
	ControlOppChange  = 1 << 2
)

// LDO_VBB_*_VOLTAGE_CTRL
const (
	LdoVBBVSetOutMask = 0x1f
	LdoVBBMuxCtrl     = 1 << 10
)

type Opp int

const (
	NominalOpp Opp = iota
	FastOpp
	SlowOpp
)

func (opp Opp) masks() (abbType, oppSel uint32) {
	switch opp {
	case FastOpp:
		return SetupActiveFBBSel, ControlFastOppSel
	case SlowOpp:
		return SetupActiveRBBSel, ControlSlowOppSel
	}
	return 0, 0
}

// Config locates the ABB registers of one domain.
type Config struct {
	Fuse       reg.Addr
	LdoVBB     reg.Addr
	Setup      reg.Addr
	Control    reg.Addr
	TxDone     reg.Addr
	TxDoneMask uint32
	Opp        Opp
	Waiter     reg.Waiter // TxDone poll, SettlingTime if zero
}

func roundClosest(x, d uint32) uint32 { return (x + d/2) / d }

// WaitCount is the SR2 wait count for a system clock.
func WaitCount(sysClkHz uint32) uint32 {
	rate := roundClosest(sysClkHz, 1000000)
	cycles := roundClosest(ClockCycles*10, rate)
	return roundClosest(SettlingTime*10, cycles)
}

// Setup does nothing unless ABB is enabled in the domain's OPP fuse. A
// transition timeout is logged and returned; it is not fatal.
func Setup(bus reg.Bus, cfg *Config, sysClkHz uint32) error {
	fuse := bus.Read32(cfg.Fuse)
	if fuse&FuseEnableMask == 0 {
		Debug.Log("ABB not enabled in fuse", cfg.Fuse)
		return nil
	}
	reg.ClrSetBits(bus, cfg.LdoVBB, LdoVBBVSetOutMask, fuse&FuseVSetMask)
	reg.SetBits(bus, cfg.LdoVBB, LdoVBBMuxCtrl)

	abbType, oppSel := cfg.Opp.masks()
	bus.Write32(cfg.Setup, 0)
	bus.Write32(cfg.Control, 0)
	reg.SetBits(bus, cfg.Setup,
		(WaitCount(sysClkHz)<<SetupSR2WtCntSh)&SetupSR2WtCntMask)
	reg.SetBits(bus, cfg.Setup, abbType)
	reg.SetBits(bus, cfg.Setup, SetupSR2En)

	w := cfg.Waiter
	if w.Bound == 0 {
		w.Bound = SettlingTime
	}
	clearTxDone(bus, cfg, w)
	reg.SetBits(bus, cfg.Control, oppSel)
	reg.SetBits(bus, cfg.Control, ControlOppChange)

	var err error
	if !w.OnValue(bus, cfg.TxDoneMask, cfg.TxDoneMask, cfg.TxDone) {
		log.Print("err", ErrTimeout)
		err = ErrTimeout
	}
	clearTxDone(bus, cfg, w)
	return err
}

func clearTxDone(bus reg.Bus, cfg *Config, w reg.Waiter) {
	bus.Write32(cfg.TxDone, cfg.TxDoneMask)
	if !w.OnValue(bus, cfg.TxDoneMask, 0, cfg.TxDone) {
		Debug.Log("ABB: timeout clearing tranxdone", cfg.TxDone)
	}
}
