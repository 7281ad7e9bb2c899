// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

/*
Package dbg is the debug trace sink for register sequencing.

Each package keeps a style variable that is NoOp unless a command or test
enables it,

	// PACKAGE.go
	var Debug = dbg.NoOp

		...
		Debug.Logf("%s: M %d N %d", name, m, n)
		...

Plain and FileLine traces go to the system log at debug priority, or to the
writer given to Writer.

If args[0] is an error, both Log and Logf return it whatever the style.
*/
package dbg

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/platinasystems/log"
)

type Style int

const (
	NoOp     Style = iota
	Plain          // TEXT
	FileLine       // dpll.go:42: TEXT
	nStyles
)

var writer atomic.Value

// Writer redirects traces from the system log to w.
func Writer(w io.Writer) {
	writer.Store(w)
}

func (style Style) Log(args ...interface{}) error {
	return style.log("", nil, args...)
}

func (style Style) Logf(format string, args ...interface{}) error {
	return style.log(format, nil, args...)
}

func (style Style) String() string {
	if style < 0 || style >= nStyles {
		return fmt.Sprint(int(style))
	}
	return []string{
		"NoOp",
		"Plain",
		"FileLine",
	}[style]
}

// The unused arg is to work-around this vet false positive,
//
//	call has arguments but no formatting directives
func (style Style) log(format string, _ interface{}, args ...interface{}) error {
	const skip = 2
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	err, ok := args[0].(error)
	if !ok {
		err = nil
	}
	if style == NoOp {
		return err
	}
	buf := new(bytes.Buffer)
	if style == FileLine {
		if _, file, line, ok := runtime.Caller(skip); ok {
			fmt.Fprint(buf, filepath.Base(file), ":", line, ": ")
		}
	}
	if len(format) > 0 {
		fmt.Fprintf(buf, format, args...)
		fmt.Fprintln(buf)
	} else {
		fmt.Fprintln(buf, args...)
	}
	if w, ok := writer.Load().(io.Writer); ok && w != nil {
		w.Write(buf.Bytes())
	} else {
		log.Print("debug", strings.TrimSuffix(buf.String(), "\n"))
	}
	return err
}
