// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches a multi-call binary's arguments to its commands.
package goes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/prcm/cmd"
	"github.com/platinasystems/prcm/lang"
)

const InstallName = "/usr/bin/goes-prcm"

// Stdout receives help, usage, apropos and man text.
var Stdout io.Writer = os.Stdout

type ByName map[string]*Goes

type Goes struct {
	Name    string
	Main    func(...string) error
	Kind    cmd.Kind
	Usage   string
	Apropos lang.Alt
	Man     lang.Alt
}

type manner interface {
	Man() lang.Alt
}

// Plot commands on map.
func (byName ByName) Plot(cmds ...cmd.Cmd) {
	for _, v := range cmds {
		g := &Goes{
			Name:    v.String(),
			Main:    v.Main,
			Kind:    cmd.WhatKind(v),
			Usage:   v.Usage(),
			Apropos: v.Apropos(),
		}
		if _, found := byName[g.Name]; found {
			panic(fmt.Errorf("%s: duplicate", g.Name))
		}
		if method, found := v.(manner); found {
			g.Man = method.Man()
		}
		byName[g.Name] = g
	}
}

// Names of the interactive commands, sorted.
func (byName ByName) Names() []string {
	var names []string
	for name, g := range byName {
		if g.Kind.IsInteractive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Main runs the args[0] command, or os.Args without args. A binary linked to
// a command name runs that command; otherwise the first argument names it.
//
// "-h", "-help", "--help" and "-usage" print the command's usage; "-apropos"
// and "-man" print its other text.
func (byName ByName) Main(args ...string) error {
	if len(args) == 0 {
		args = os.Args
		if len(args) == 0 {
			return nil
		}
	}
	if base := filepath.Base(args[0]); byName[base] != nil {
		args[0] = base
	} else {
		args = args[1:]
	}
	if len(args) == 0 {
		return byName.help()
	}
	name, args := args[0], args[1:]
	if name == "help" {
		return byName.help(args...)
	}
	g := byName[name]
	if g == nil {
		return fmt.Errorf("%s: command not found", name)
	}
	flag, args := flags.New(args, "-h", "-help", "--help", "-apropos",
		"-man", "-usage")
	switch {
	case flag.ByName["-h"], flag.ByName["-help"], flag.ByName["--help"],
		flag.ByName["-usage"]:
		fmt.Fprintln(Stdout, "usage:", g.Usage)
		return nil
	case flag.ByName["-apropos"]:
		fmt.Fprintln(Stdout, g.Apropos)
		return nil
	case flag.ByName["-man"]:
		if s := g.Man.String(); len(s) > 0 {
			fmt.Fprintln(Stdout, strings.TrimPrefix(s, "\n"))
		} else {
			fmt.Fprintln(Stdout, "usage:", g.Usage)
		}
		return nil
	}
	if err := g.Main(args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (byName ByName) help(args ...string) error {
	if len(args) > 0 {
		g := byName[args[0]]
		if g == nil {
			return fmt.Errorf("%s: command not found", args[0])
		}
		fmt.Fprintln(Stdout, "usage:", g.Usage)
		return nil
	}
	fmt.Fprintf(Stdout, "usage: %s COMMAND [ARGS]...\n\n", ProgBase())
	names := byName.Names()
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range names {
		fmt.Fprintf(Stdout, "%-*s  %s\n", width, name, byName[name].Apropos)
	}
	return nil
}
