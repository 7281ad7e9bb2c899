// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pmic

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/gpio"
)

// FdtFile is the running machine's flattened device tree.
var FdtFile = "/sys/firmware/fdt"

// Line is an output GPIO.
type Line interface {
	// SetDirection applies the pin's device tree mode.
	SetDirection() error
	SetValue(v bool) error
}

// FindLine returns the named pin, first gathering the machine's pins from
// its device tree if none are known.
func FindLine(name string) (Line, error) {
	if len(gpio.Pins) == 0 {
		b, err := ioutil.ReadFile(FdtFile)
		if err != nil {
			return nil, err
		}
		GatherPins(b)
	}
	pin, found := gpio.Pins[name]
	if !found {
		return nil, fmt.Errorf("%s: gpio not found", name)
	}
	return &pin, nil
}

// GatherPins builds gpio.Pins from a flattened device tree blob.
func GatherPins(b []byte) {
	gpio.Aliases = make(gpio.GpioAliasMap)
	gpio.Pins = make(gpio.PinMap)
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(b)
	t.MatchNode("aliases", gatherAliases)
	t.EachProperty("gpio-controller", "", gatherControllerPins)
}

func gatherAliases(n *fdt.Node) {
	for p, pn := range n.Properties {
		if strings.Contains(p, "gpio") {
			val := strings.Split(string(pn), "\x00")
			v := strings.Split(val[0], "/")
			gpio.Aliases[p] = v[len(v)-1]
		}
	}
}

func gatherControllerPins(n *fdt.Node, name string, value string) {
	for bank, alias := range gpio.Aliases {
		if alias != n.Name {
			continue
		}
		for _, c := range n.Children {
			var mode string
			var desc bool
			for p := range c.Properties {
				switch p {
				case "gpio-pin-desc":
					desc = true
				case "output-high", "output-low", "input":
					mode = p
				}
			}
			at := strings.Split(c.Name, "@")
			if !desc || mode == "" || len(at) != 2 {
				continue
			}
			i, _ := strconv.Atoi(at[1])
			gpio.Pins[at[0]] = gpio.GpioPinMode[mode] |
				gpio.GpioBankToBase[bank] |
				gpio.Pin(i)
		}
	}
}
