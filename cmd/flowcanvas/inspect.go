package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/loader"
)

func inspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarise a diagram file and the behaviours the config enables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.OutOrStdout(), a, args[0])
		},
	}
}

func inspect(w io.Writer, a *app, path string) error {
	snap, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	c, err := codec.ForPath(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("flowcanvas"),
		Subtle.Sprintf("%s (%s, version %d)", path, c.Format(), snap.Version))

	st := snap.Stats()
	Info.Fprintln(w, "Contents")
	fmt.Fprintf(w, "  Layers:  %d\n", st.Layers)
	fmt.Fprintf(w, "  Groups:  %d\n", st.Groups)
	fmt.Fprintf(w, "  Nodes:   %d\n", st.Nodes)
	fmt.Fprintf(w, "  Ports:   %d\n", st.Ports)
	bound := 0
	for _, l := range snap.Links {
		if !l.Target.IsZero() {
			bound++
		}
	}
	fmt.Fprintf(w, "  Links:   %d (%d bound, %d unbound)\n\n", st.Links, bound, st.Links-bound)

	Info.Fprintln(w, "Layers")
	var rows [][]string
	for _, l := range snap.Layers {
		ls := (&codec.Snapshot{Layers: []codec.LayerSnapshot{l}}).Stats()
		marker := " "
		if l.ID == snap.CurrentLayer {
			marker = Good.Sprint("*")
		}
		name := l.Name
		if name == "" {
			name = Subtle.Sprint("(unnamed)")
		}
		rows = append(rows, []string{marker, name, string(l.ID),
			fmt.Sprint(ls.Groups), fmt.Sprint(ls.Nodes), fmt.Sprint(ls.Ports)})
	}
	table(w, []string{" ", "Name", "ID", "Groups", "Nodes", "Ports"}, rows)
	fmt.Fprintln(w)

	vp := snap.Viewport
	Info.Fprintln(w, "Viewport")
	fmt.Fprintf(w, "  Zoom %g, pan (%g, %g), canvas %gx%g\n\n",
		vp.Zoom, vp.Pan.X, vp.Pan.Y, vp.Canvas.Width, vp.Canvas.Height)

	Info.Fprintf(w, "Behaviors %s\n", Subtle.Sprintf("(%s)", displayPath(a.cfgPath)))
	for _, b := range a.cfg.Behaviors.List() {
		fmt.Fprintf(w, "  %s %s\n", statusIcon(b.Enabled), b.Name)
	}
	return nil
}
