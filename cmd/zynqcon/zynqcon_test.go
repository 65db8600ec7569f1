// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/u-root/uzynq/pkg/devicetree/dttest"
	"github.com/u-root/uzynq/pkg/kernel"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func withFs(t *testing.T) afero.Fs {
	old := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = old })
	return fs
}

func TestInspect(t *testing.T) {
	mem := withFs(t)
	blob := dttest.Blob(dttest.ZynqMP(0xff000000, dttest.U32("clocks", 3)))
	if err := afero.WriteFile(mem, "/board.dtb", blob, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := run(t, "inspect", "/board.dtb")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	want := strings.Join([]string{
		"node:      /amba/serial@ff000000",
		"base:      0xff000000",
		"baud:      115200",
		"ref clock: 100000000 Hz",
		"bauddiv:   6",
		"baudgen:   124",
		"achieved:  115207 baud (+0.006%)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("inspect output mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectNoClock(t *testing.T) {
	mem := withFs(t)
	blob := dttest.Blob(dttest.ZynqMP(0xff000000))
	if err := afero.WriteFile(mem, "/board.dtb", blob, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "inspect", "/board.dtb"); !errors.Is(err, kernel.ClockNotFound) {
		t.Errorf("inspect = %v, want %v", err, kernel.ClockNotFound)
	}
}

func TestInspectMissingFile(t *testing.T) {
	withFs(t)
	if _, err := run(t, "inspect", "/nope.dtb"); err == nil {
		t.Errorf("inspect of a missing file succeeded")
	}
}

func TestDivisor(t *testing.T) {
	got, err := run(t, "divisor", "--baud", "9600")
	if err != nil {
		t.Fatalf("divisor: %v", err)
	}
	want := "bauddiv:   5\nbaudgen:   1736\nachieved:  9600 baud (+0.000%)\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("divisor output mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, "divisor", "--baud", "1000000", "--clock", "1000000"); !errors.Is(err, kernel.OutOfRange) {
		t.Errorf("divisor = %v, want %v", err, kernel.OutOfRange)
	}
}

type keys struct {
	r *strings.Reader
}

func (k keys) ReadRune() (rune, error) {
	r, _, err := k.r.ReadRune()
	return r, err
}

func TestRelay(t *testing.T) {
	var out bytes.Buffer
	if err := relay(keys{strings.NewReader("ls\rü\x1dignored")}, &out); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if got, want := out.String(), "ls\rü"; got != want {
		t.Errorf("relayed %q, want %q", got, want)
	}
}

func TestRelayEOF(t *testing.T) {
	var out bytes.Buffer
	if err := relay(keys{strings.NewReader("ab")}, &out); err != io.EOF {
		t.Errorf("relay = %v, want EOF", err)
	}
	if out.String() != "ab" {
		t.Errorf("relayed %q, want %q", out.String(), "ab")
	}
}
