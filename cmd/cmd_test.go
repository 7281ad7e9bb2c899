// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

import (
	"fmt"

	"github.com/platinasystems/prcm/lang"
)

type plain struct{}

func (plain) Apropos() lang.Alt         { return lang.Alt{lang.EnUS: "plain"} }
func (plain) Main(args ...string) error { return nil }
func (plain) String() string            { return "plain" }
func (plain) Usage() string             { return "plain" }

type hidden struct{ plain }

func (hidden) Kind() Kind { return Hidden }

func ExampleWhatKind() {
	for _, v := range []Cmd{plain{}, hidden{}} {
		k := WhatKind(v)
		fmt.Println(v, k, k.IsInteractive())
	}
	// Output:
	// plain default true
	// plain hidden false
}
