// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package report

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

type printer struct {
	lines []string
	fail  int
}

var errFull = errors.New("full")

func (p *printer) Print(a ...interface{}) (int, error) {
	if p.fail > 0 && len(p.lines) == p.fail {
		return 0, errFull
	}
	s := fmt.Sprint(a...)
	p.lines = append(p.lines, s)
	return len(s), nil
}

var status = map[string]string{
	"board":    "omap5-uevm",
	"dpll.mpu": "locked",
	"sysclk":   "38.4 MHz",
}

func TestSend(t *testing.T) {
	p := new(printer)
	if err := Send(p, status); err != nil {
		t.Fatal(err)
	}
	if s := fmt.Sprint(p.lines); s !=
		"[prcm.board: omap5-uevm prcm.dpll.mpu: locked prcm.sysclk: 38.4 MHz]" {
		t.Error(s)
	}
	p = &printer{fail: 1}
	if err := Send(p, status); !errors.Is(err, errFull) {
		t.Error(err)
	}
}

func ExamplePrint() {
	Print(os.Stdout, status)
	// Output:
	// board     omap5-uevm
	// dpll.mpu  locked
	// sysclk    38.4 MHz
}
