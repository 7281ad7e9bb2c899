// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board has the PRCM configuration of each supported board.
package board

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/prcm/dpll"
	"github.com/platinasystems/prcm/prcm"
)

const (
	DefaultName = "omap5-uevm"
	fdtMagic    = 0xd00dfeed
	fdtHeader   = 40
)

// FdtFile is the running machine's flattened device tree.
var FdtFile = "/sys/firmware/fdt"

var byName = map[string]func() *prcm.Board{}

func register(name string, f func() *prcm.Board) { byName[name] = f }

// Names of the supported boards, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh configuration of the named board.
func New(name string) (*prcm.Board, error) {
	f, found := byName[name]
	if !found {
		return nil, fmt.Errorf("%s: unknown board, must be %s", name,
			strings.Join(Names(), "|"))
	}
	return f(), nil
}

// Match returns the board whose compatible strings include one from a
// device tree's root compatible property.
func Match(b []byte) (*prcm.Board, error) {
	if len(b) < fdtHeader || binary.BigEndian.Uint32(b) != fdtMagic {
		return nil, fmt.Errorf("fdt: bad magic")
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err := t.Parse(b); err != nil {
		return nil, fmt.Errorf("fdt: %w", err)
	}
	if t.RootNode == nil {
		return nil, fmt.Errorf("fdt: no root node")
	}
	v, found := t.RootNode.Properties["compatible"]
	if !found {
		return nil, fmt.Errorf("fdt: no compatible property")
	}
	return MatchCompatible(t.PropStringSlice(v)...)
}

func MatchCompatible(compatible ...string) (*prcm.Board, error) {
	for _, c := range compatible {
		for _, name := range Names() {
			b := byName[name]()
			for _, bc := range b.Compatible {
				if c == bc {
					return b, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%s: no matching board",
		strings.Join(compatible, ", "))
}

// Detect returns the named board or, without a name, the board matching
// the running machine's device tree or else the default.
func Detect(name string) (*prcm.Board, error) {
	if len(name) > 0 {
		return New(name)
	}
	if b, err := ioutil.ReadFile(FdtFile); err == nil {
		if board, err := Match(b); err == nil {
			return board, nil
		}
	}
	return New(DefaultName)
}

// mn is a DPLL multiplier and divider.
type mn struct{ m, n uint32 }

// rows gives every M, N pair, one per reference clock index, the same
// post-dividers.
func rows(post dpll.Params, mns ...mn) []dpll.Params {
	set := make([]dpll.Params, len(mns))
	for i, x := range mns {
		set[i] = post
		set[i].M, set[i].N = x.m, x.n
	}
	return set
}
