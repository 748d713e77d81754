package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/config"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/loader"
)

const testConfig = `version: 1
log:
  level: error
behaviors:
  zoom:
    enabled: false
`

// setup writes a config and a two-node diagram to a temp dir.
func setup(t *testing.T) (dir, cfgPath, diagramPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "flowcanvas.yaml")
	if err := os.WriteFile(cfgPath, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}

	snap := &codec.Snapshot{
		Version:      codec.Version,
		CurrentLayer: "base",
		Viewport:     codec.Viewport{Zoom: 1.5},
		Layers: []codec.LayerSnapshot{{
			ID:   "base",
			Name: "base",
			Nodes: []codec.NodeSnapshot{
				{ID: "a", Size: domain.Size{Width: 10, Height: 10}, Ports: []codec.PortSnapshot{{ID: "pa", Alignment: "right"}}},
				{ID: "b", Position: domain.Point{X: 50}, Size: domain.Size{Width: 10, Height: 10}, Ports: []codec.PortSnapshot{{ID: "pb", Alignment: "left"}}},
			},
		}},
		Links: []codec.LinkSnapshot{{ID: "l", Source: "pa", Target: "pb"}},
	}
	diagramPath = filepath.Join(dir, "diagram.yaml")
	if err := loader.SaveFile(diagramPath, snap); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath, diagramPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	_, cfg, diagram := setup(t)

	out, err := run(t, "--config", cfg, "inspect", diagram)
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"yaml, version 1",
		"Nodes:   2",
		"Links:   1 (1 bound, 0 unbound)",
		"base",
		"Zoom 1.5",
		"selection",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "✗ zoom") {
		t.Errorf("expected zoom to be shown disabled:\n%s", out)
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, cfg, _ := setup(t)
	if _, err := run(t, "--config", cfg, "inspect", "nowhere.json"); err == nil {
		t.Error("expected an error")
	}
}

func TestConvert(t *testing.T) {
	t.Run("to another file", func(t *testing.T) {
		dir, cfg, diagram := setup(t)
		out := filepath.Join(dir, "converted", "diagram.toml")

		if _, err := run(t, "--config", cfg, "convert", diagram, out); err != nil {
			t.Fatal(err)
		}
		want, _ := loader.LoadFile(diagram)
		got, err := loader.LoadFile(out)
		if err != nil {
			t.Fatalf("failed to read converted file: %v", err)
		}
		if got.Stats() != want.Stats() || len(got.Links) != 1 || got.Links[0].Target != "pb" {
			t.Errorf("unexpected converted snapshot %+v", got)
		}
	})

	t.Run("to stdout", func(t *testing.T) {
		_, cfg, diagram := setup(t)
		out, err := run(t, "--config", cfg, "convert", diagram, "-", "--format", "json")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, `"current_layer": "base"`) {
			t.Errorf("expected indented JSON, got:\n%s", out)
		}
	})

	t.Run("stdout needs a format", func(t *testing.T) {
		_, cfg, diagram := setup(t)
		if _, err := run(t, "--config", cfg, "convert", diagram, "-"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfg, []byte("diagram:\n  min_zoom: 5\n  max_zoom: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfg, "inspect", "x.json"); err == nil {
		t.Error("expected the invalid config to be rejected")
	}
}

func TestServe(t *testing.T) {
	newApp := func(t *testing.T, cfgPath string) *app {
		t.Helper()
		a := &app{configFlag: cfgPath}
		if err := a.loadConfig(); err != nil {
			t.Fatal(err)
		}
		a.cfg.Server.Address = "127.0.0.1:0"
		a.cfg.Database.Path = filepath.Join(t.TempDir(), "flowcanvas.db")
		return a
	}

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		_, cfg, diagram := setup(t)
		a := newApp(t, cfg)
		a.cfg.Watch.File = diagram

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- serve(ctx, a) }()

		time.Sleep(100 * time.Millisecond)
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected a clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not stop")
		}
	})

	t.Run("a bad watch file fails startup", func(t *testing.T) {
		dir, cfg, _ := setup(t)
		a := newApp(t, cfg)
		a.cfg.Watch.File = filepath.Join(dir, "missing.json")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := serve(ctx, a); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestConfig(t *testing.T) {
	t.Run("show prints the summary", func(t *testing.T) {
		_, cfg, _ := setup(t)
		out, err := run(t, "--config", cfg, "config", "show")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, cfg) || !strings.Contains(out, "Enabled behaviors (9)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("init writes a loadable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "flowcanvas.toml")
		out, err := run(t, "config", "init", path)
		if err != nil {
			t.Fatalf("init failed: %v\n%s", err, out)
		}
		cfg, _, err := config.LoadFromPath(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected a valid config, got %v", err)
		}
	})

	t.Run("init refuses to overwrite without force", func(t *testing.T) {
		_, cfg, _ := setup(t)
		if _, err := run(t, "config", "init", cfg); err == nil {
			t.Error("expected an error")
		}
		if _, err := run(t, "config", "init", "--force", cfg); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})
}
