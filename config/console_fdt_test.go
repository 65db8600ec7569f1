// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !static_console

package config

import (
	"testing"

	"github.com/u-root/uzynq/pkg/console"
)

func TestConsoleFromDeviceTree(t *testing.T) {
	if _, ok := DefaultConfig.Console.(console.Discovered); !ok {
		t.Errorf("console source is %v, want devicetree", DefaultConfig.Console)
	}
}
