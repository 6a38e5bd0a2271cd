package server

import (
	"aimtrainer/internal/wshub"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	session := s.getSession(r)
	if session == nil {
		http.Error(w, "Session not found", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	client := &wshub.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 64),
	}

	snapshot, err := json.Marshal(wshubSnapshot(session.Game.Get()))
	if err == nil {
		client.Send <- snapshot
	}

	session.Hub.Register(client)
	s.Metrics.Viewers.Inc()
	defer func() {
		session.Hub.Unregister(client.ID)
		s.Metrics.Viewers.Dec()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		client.WritePump(ctx)
		cancel()
	}()

	err = client.ReadPump(ctx, func(msg wshub.ClientMessage) {
		if err := s.apply(session, msg); err != nil {
			log.Printf("[WS] %s: %v\n", session.Code, err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
		log.Printf("[WS] Read error: %v\n", err)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func wshubSnapshot(v any) wshub.ServerMessage {
	data, _ := json.Marshal(v)
	return wshub.ServerMessage{Type: "snapshot", Data: data}
}
