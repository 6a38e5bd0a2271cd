package wshub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 16)}

	h.Register(c1)
	h.Register(c2)
	if h.Count() != 2 {
		t.Fatalf("Count = %d, want 2", h.Count())
	}

	h.Broadcast(ServerMessage{Type: "frame", Data: json.RawMessage(`{"hits":3}`)})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var got ServerMessage
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "frame" || string(got.Data) != `{"hits":3}` {
				t.Fatalf("unexpected message: %+v", got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("%s did not receive message", c.ID)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	h.Register(c1)

	h.Unregister("c1")

	if _, ok := <-c1.Send; ok {
		t.Fatal("c1.Send should be closed")
	}
	if h.Count() != 0 {
		t.Errorf("Count = %d, want 0", h.Count())
	}
}

func TestUnregisterNonexistent(t *testing.T) {
	h := NewHub()
	// Should not panic
	h.Unregister("nonexistent")
}

func TestCloseAll(t *testing.T) {
	h := NewHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.CloseAll()

	if h.Count() != 0 {
		t.Errorf("Count = %d, want 0", h.Count())
	}
	if _, ok := <-c2.Send; ok {
		t.Error("c2.Send should be closed")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()

	// Channel with capacity 1
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(c)

	// Fill the channel
	c.Send <- []byte("filler")

	// Should not block: message dropped
	h.Broadcast(ServerMessage{Type: "frame"})

	data := <-c.Send
	if string(data) != "filler" {
		t.Fatalf("expected filler, got: %s", data)
	}

	select {
	case <-c.Send:
		t.Fatal("should be empty after draining filler")
	default:
	}
}

func TestPumps_RoundTrip(t *testing.T) {
	received := make(chan ClientMessage, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()

		c := &Client{ID: "srv", Conn: conn, Send: make(chan []byte, 4)}
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go c.WritePump(ctx)

		c.Send <- []byte(`{"t":"state","d":{"state":"idle"}}`)
		c.ReadPump(ctx, func(m ClientMessage) { received <- m })
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var greeting ServerMessage
	if err := wsjson.Read(ctx, conn, &greeting); err != nil {
		t.Fatalf("read: %v", err)
	}
	if greeting.Type != "state" {
		t.Errorf("greeting type = %q, want %q", greeting.Type, "state")
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := wsjson.Write(ctx, conn, ClientMessage{Type: "click", X: 12, Y: 34}); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case m := <-received:
		if m.Type != "click" || m.X != 12 || m.Y != 34 {
			t.Errorf("received %+v, want click at (12, 34)", m)
		}
	case <-ctx.Done():
		t.Fatal("server did not receive click")
	}
}
