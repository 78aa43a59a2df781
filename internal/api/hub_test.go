package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return msg
}

func TestHubPushesChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)
	s, g := newTestServer(t, hub)

	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := readMessage(t, conn)
	if hello.Type != MsgHello || hello.Game != g.ID {
		t.Fatalf("expected hello for %s, got %+v", g.ID, hello)
	}
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 client, got %d", hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Rejected actions stay silent; the next frame must be the accepted pass.
	if r, err := http.Post(ts.URL+"/api/auction/pass", "application/json", strings.NewReader(`{"player": 2}`)); err == nil {
		r.Body.Close()
	}
	resp, err := http.Post(ts.URL+"/api/auction/pass", "application/json", strings.NewReader(`{"player": 1}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	msg := readMessage(t, conn)
	if msg.Type != MsgStateChanged || msg.Game != g.ID {
		t.Fatalf("unexpected message %+v", msg)
	}
	change, ok := msg.Payload.(map[string]any)
	if !ok || change["kind"] != "auction" || change["phase"] != "auction" || change["player"] != float64(1) {
		t.Fatalf("unexpected payload %#v", msg.Payload)
	}
}

func TestHubPublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.Publish(MsgStateChanged, uuid.Nil, nil)
	}
	if len(hub.Broadcast) != cap(hub.Broadcast) {
		t.Fatalf("expected a full queue, got %d/%d", len(hub.Broadcast), cap(hub.Broadcast))
	}
}

func TestHubShutdownRefusesNewClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)
	s, _ := newTestServer(t, hub)

	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	cancel()
	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("hub did not stop")
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected a stopped hub to close the socket")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("expected no clients, got %d", hub.ClientCount())
	}
}
