package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/loader"
)

func convertCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a diagram file between JSON, YAML and TOML",
		Long: "Convert reads <in> and writes <out>, each in the format its extension names.\n" +
			"Pass - as <out> together with --format to write to stdout.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(cmd.OutOrStdout(), args[0], args[1], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format when <out> is -")
	return cmd
}

func convert(w io.Writer, in, out, format string) error {
	snap, err := loader.LoadFile(in)
	if err != nil {
		return err
	}

	if out == "-" {
		c, err := codec.ForFormat(format)
		if err != nil {
			return err
		}
		return c.Export(snap, w)
	}

	if err := loader.SaveFile(out, snap); err != nil {
		return err
	}
	st := snap.Stats()
	fmt.Fprintf(w, "%s %s -> %s %s\n", statusIcon(true), in, out,
		Subtle.Sprintf("(%d nodes, %d links)", st.Nodes, st.Links))
	return nil
}
