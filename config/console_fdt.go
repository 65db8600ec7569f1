// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !static_console

package config

import (
	"github.com/u-root/uzynq/pkg/console"
)

var consoleSource console.Source = console.Discovered{}
