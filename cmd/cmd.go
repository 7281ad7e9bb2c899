// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines what a goes-prcm command provides.
package cmd

import "github.com/platinasystems/prcm/lang"

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Kind() Kind
	Man() lang.Alt
	*/
}

const (
	// Hidden commands are left out of help.
	Hidden Kind = 1 << iota
)

type Kind uint16

type kinder interface {
	Kind() Kind
}

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

func (k Kind) IsHidden() bool      { return k&Hidden == Hidden }
func (k Kind) IsInteractive() bool { return k&Hidden == 0 }

func (k Kind) String() string {
	switch k {
	case 0:
		return "default"
	case Hidden:
		return "hidden"
	}
	return "unknown"
}
