package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowcanvas/internal/config"
)

var version = "0.1.0"

// app carries what every command shares once the config is loaded.
type app struct {
	configFlag string
	cfg        *config.Config
	cfgPath    string
}

func (a *app) loadConfig() error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configFlag != "" {
		cfg, path, err = config.LoadFromPath(a.configFlag)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", displayPath(path), err)
	}
	a.cfg, a.cfgPath = cfg, path
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "flowcanvas",
		Short: "flowcanvas: reactive node and link diagrams",
		Long: Brand.Sprint("flowcanvas") + " serves an interactive diagram over HTTP\n" +
			Subtle.Sprint("Nodes, groups, ports and links driven by pluggable behaviours"),
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.SetVersionTemplate("flowcanvas {{ .Version }}\n")
	root.PersistentFlags().StringVarP(&a.configFlag, "config", "c", "", "config file (YAML or TOML)")

	root.AddCommand(
		serveCmd(a),
		inspectCmd(a),
		convertCmd(),
		configCmd(a),
	)
	return root
}
