package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flowcanvas/internal/service"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(h)
	// Stopping the hub first ends open streams so Close does not block.
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFormat(t *testing.T) {
	msg, err := format(service.Event{Type: service.EventMoved, EntityID: "n1", Kind: "node"})
	if err != nil {
		t.Fatal(err)
	}
	got := string(msg)
	if !strings.HasPrefix(got, "event: moved\ndata: {") || !strings.HasSuffix(got, "}\n\n") {
		t.Errorf("unexpected message %q", got)
	}
	if !strings.Contains(got, `"entity_id":"n1"`) {
		t.Errorf("expected entity id in %q", got)
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	h, srv := startHub(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", ct)
	}
	waitForClients(t, h, 1)

	events := make(chan service.Event, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Pump(ctx, events)
	events <- service.Event{Type: service.EventRedraw, EntityID: "g1", Kind: "group"}

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed before the event arrived")
			}
			if line == "event: redraw" {
				return
			}
		case <-timeout:
			t.Fatal("expected the redraw event")
		}
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h, srv := startHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	waitForClients(t, h, 1)

	cancel()
	resp.Body.Close()
	waitForClients(t, h, 0)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New(nil)
	// Nothing drains the channel; the extra event must not block.
	for i := 0; i < cap(h.broadcast)+1; i++ {
		h.Broadcast(service.Event{Type: service.EventRedraw})
	}
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("expected a full channel, got %d", len(h.broadcast))
	}
}

func TestKeepAlive(t *testing.T) {
	h := New(nil).WithKeepAlive(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	found := make(chan struct{})
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if sc.Text() == ": keepalive" {
				close(found)
				return
			}
		}
	}()

	select {
	case <-found:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a keepalive comment")
	}
}
