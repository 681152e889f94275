// Copyright 2018 The aquachain Authors
// This file is part of the aquachain library.
//
// The aquachain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The aquachain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the aquachain library. If not, see <http://www.gnu.org/licenses/>.

package debug

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/aquachain/etchash/common/log"
)

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/miner")
	tests := map[string]string{
		"~/cpu.prof":      filepath.Clean("/home/miner/cpu.prof"),
		"~other/cpu.prof": "~other/cpu.prof",
		"/tmp/../x.prof":  filepath.Clean("/x.prof"),
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogHandlerLevel(t *testing.T) {
	t.Setenv("LOGLEVEL", "")
	h := LogHandler(false, int(log.LvlWarn), false, false)
	// filtered records never reach the terminal handler
	if err := h.Log(&log.Record{Lvl: log.LvlDebug, Time: time.Now(), Msg: "hidden"}); err != nil {
		t.Fatal(err)
	}
}

func TestCPUProfile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cpu.prof")
	if err := Handler.StartCPUProfile(file); err != nil {
		t.Fatal(err)
	}
	if err := Handler.StartCPUProfile(file); err == nil {
		t.Fatal("second profile started")
	}
	if err := Handler.StopCPUProfile(); err != nil {
		t.Fatal(err)
	}
	if err := Handler.StopCPUProfile(); err == nil {
		t.Fatal("stopped a profile that was not running")
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatal(err)
	}
}
