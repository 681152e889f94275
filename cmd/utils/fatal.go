// Copyright 2018 The aquachain Authors
// This file is part of etchash.
//
// etchash is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// etchash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with etchash. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gitlab.com/aquachain/etchash/common/sense"
)

var startTime = time.Now()

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}

	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)

	// small traceback for long running commands (makedag)
	if sense.Getenv("DEBUG") != "" || time.Since(startTime) > 10*time.Second {
		pc := make([]uintptr, 8)
		if n := runtime.Callers(2, pc); n != 0 {
			frames := runtime.CallersFrames(pc[:n])
			for {
				frame, more := frames.Next()
				fmt.Fprintf(w, "\t >%s:%d %s\n", frame.File, frame.Line, frame.Function)
				if !more {
					break
				}
			}
		}
	}
	os.Exit(1)
}
