// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package report prints and publishes bring-up status.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
)

// Prefix of the fields in the redis default hash.
const Prefix = "prcm."

// Printer is satisfied by a redis publisher.
type Printer interface {
	Print(a ...interface{}) (int, error)
}

func keys(status map[string]string) []string {
	ks := make([]string, 0, len(status))
	for k := range status {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Send prints a "prcm.FIELD: VALUE" message per status field in field
// order.
func Send(p Printer, status map[string]string) error {
	for _, k := range keys(status) {
		if _, err := p.Print(Prefix+k, ": ", status[k]); err != nil {
			return err
		}
	}
	return nil
}

// Print writes status as aligned lines.
func Print(w io.Writer, status map[string]string) {
	ks := keys(status)
	width := 0
	for _, k := range ks {
		if len(k) > width {
			width = len(k)
		}
	}
	for _, k := range ks {
		fmt.Fprintf(w, "%-*s  %s\n", width, k, status[k])
	}
}

// Publish status to the redis default hash.
func Publish(status map[string]string) error {
	if err := redis.IsReady(); err != nil {
		return err
	}
	pub, err := publisher.New()
	if err != nil {
		return err
	}
	defer pub.Close()
	return Send(pub, status)
}
