// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/u-root/uzynq/pkg/console"
	"github.com/u-root/uzynq/pkg/devicetree"
	"github.com/u-root/uzynq/pkg/hardware/xuartps"
)

func discover(path string) (*devicetree.Tree, console.State, error) {
	blob, err := devicetree.ReadBlob(fs, path)
	if err != nil {
		return nil, console.State{}, err
	}
	tree, err := devicetree.Parse(blob)
	if err != nil {
		return nil, console.State{}, err
	}
	st, err := console.Discover(tree)
	return tree, st, err
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dtb>",
		Short: "Show the console the boot code would configure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, st, err := discover(args[0])
			if err != nil {
				return err
			}
			n, _ := tree.FindCompatible(console.Compatible)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "node:      %s\n", tree.Path(n))
			fmt.Fprintf(w, "base:      %#x\n", st.Base)
			fmt.Fprintf(w, "baud:      %d\n", st.Baud)
			fmt.Fprintf(w, "ref clock: %d Hz\n", st.ClockHz)
			return printDivisor(w, st.Baud, st.ClockHz)
		},
	}
}

func printDivisor(w io.Writer, baud, clockHz uint32) error {
	d, err := xuartps.Solve(baud, clockHz)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "bauddiv:   %d\n", d.Divisor)
	fmt.Fprintf(w, "baudgen:   %d\n", d.Generator)
	fmt.Fprintf(w, "achieved:  %d baud (%+.3f%%)\n", d.Achieved,
		(float64(d.Achieved)-float64(baud))*100/float64(baud))
	return nil
}

func newDivisorCmd() *cobra.Command {
	var baud, clockHz uint32
	cmd := &cobra.Command{
		Use:   "divisor",
		Short: "Compute the BAUDDIV/BAUDGEN pair for a baud rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printDivisor(cmd.OutOrStdout(), baud, clockHz)
		},
	}
	cmd.Flags().Uint32Var(&baud, "baud", console.DefaultBaud, "line rate")
	cmd.Flags().Uint32Var(&clockHz, "clock", 100000000, "uart_ref_clk frequency in Hz")
	return cmd
}
