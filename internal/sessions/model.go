package sessions

import (
	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/wshub"
	"encoding/json"
	"sync"
	"time"
)

// Session is one player's game plus its outbound fan-out.
type Session struct {
	ID          string
	Code        string
	Game        *gamedata.Game
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	mu       sync.Mutex
	lastSeen time.Time
	relay    chan broadcast.Message
}

// relayToHub copies broadcaster messages to the websocket hub until the
// subscription is closed.
func (s *Session) relayToHub() {
	s.relay = s.Broadcaster.Subscribe()
	go func(ch chan broadcast.Message) {
		for msg := range ch {
			s.Hub.Broadcast(wshub.ServerMessage{Type: msg.Event, Data: json.RawMessage(msg.Msg)})
		}
	}(s.relay)
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close disarms the game loop and drops every subscriber.
func (s *Session) Close() {
	s.Game.Reset()
	s.Broadcaster.Unsubscribe(s.relay)
	s.Broadcaster.Stop()
	s.Hub.CloseAll()
}
