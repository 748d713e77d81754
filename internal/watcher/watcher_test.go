package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/loader"
	"flowcanvas/internal/service"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	w := New(path, func() {
		calls.Add(1)
		changed <- struct{}{}
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Writes to other files are ignored.
	os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644)
	for i := 0; i < 3; i++ {
		os.WriteFile(path, []byte(`{"version":1}`), 0644)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	// A burst yields one call.
	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "absent", "diagram.json"), func() {})
	if err := w.Watch(context.Background()); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestWatchReloadsDiagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.json")
	snap := &codec.Snapshot{
		Version: codec.Version,
		Layers: []codec.LayerSnapshot{{
			ID: "base",
			Groups: []codec.GroupSnapshot{{
				ID:    "g",
				Size:  domain.Size{Width: 100, Height: 100},
				Nodes: []codec.NodeSnapshot{{ID: "n", Position: domain.Point{X: 10, Y: 10}, Size: domain.Size{Width: 10, Height: 10}}},
			}},
		}},
	}
	if err := loader.SaveFile(path, snap); err != nil {
		t.Fatal(err)
	}

	svc, err := service.New(service.DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()
	if _, err := loader.LoadInto(path, svc); err != nil {
		t.Fatal(err)
	}

	loaded := make(chan error, 8)
	w := New(path, func() {
		_, err := loader.LoadInto(path, svc)
		loaded <- err
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// Each save reloads the same ids over the live diagram.
	for i := 0; i < 2; i++ {
		if err := loader.SaveFile(path, snap); err != nil {
			t.Fatal(err)
		}
		select {
		case err := <-loaded:
			if err != nil {
				t.Fatalf("reload %d failed: %v", i+1, err)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("expected reload %d", i+1)
		}
	}

	cancel()
	<-done

	g, ok := svc.FindGroup("g")
	if !ok {
		t.Fatal("expected group g")
	}
	n, _ := svc.FindNode("n")
	g.SetPosition(domain.Point{X: 50, Y: 50})
	if want := (domain.Point{X: 60, Y: 60}); n.Position() != want {
		t.Errorf("expected node at %v after the group moved, got %v", want, n.Position())
	}
	if !svc.RemoveNode(n) || !n.Disposed() {
		t.Error("expected removing the node to dispose it")
	}
}
