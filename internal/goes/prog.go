// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"os"
	"path/filepath"
)

var prog string

// Prog is the running executable, or InstallName if it can't be read.
func Prog() string {
	if len(prog) == 0 {
		var err error
		prog, err = os.Readlink("/proc/self/exe")
		if err != nil {
			prog = InstallName
		}
	}
	return prog
}

func ProgBase() string { return filepath.Base(Prog()) }
