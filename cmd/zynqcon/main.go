// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// zynqcon is the host side companion of the board console: it explains what
// the boot code will make of a device tree and attaches to the console.
package main

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/u-root/uzynq/pkg/logger"
)

var (
	log = logger.LogContainer.GetSimpleLogger()

	fs = afero.NewOsFs()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zynqcon",
		Short:         "Inspect and attach to the Zynq PS UART console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInspectCmd(), newDivisorCmd(), newAttachCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
