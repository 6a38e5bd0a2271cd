package sessions

import (
	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/targets"
	"aimtrainer/internal/wshub"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 1 * time.Hour

type Options struct {
	Game gamedata.Config
	TTL  time.Duration
	// Deps builds the game capabilities of each new session. Nil uses the wall clock.
	Deps     func() gamedata.Deps
	OnCreate func(*Session)
	OnDelete func(*Session)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	done     chan struct{}
	once     sync.Once
}

func NewStore(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	s := &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		done:     make(chan struct{}),
	}
	go s.sweepStale()
	return s
}

func (s *Store) Create(shape targets.Shape) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}

		cfg := s.opts.Game
		cfg.Shape = shape
		var deps gamedata.Deps
		if s.opts.Deps != nil {
			deps = s.opts.Deps()
		}
		bus := events.NewBus()
		now := time.Now()

		session := &Session{
			ID:          uuid.NewString(),
			Code:        code,
			Game:        gamedata.NewGame(bus, cfg, deps),
			Broadcaster: broadcast.NewBroadcaster(bus),
			Hub:         wshub.NewHub(),
			CreatedAt:   now,
			lastSeen:    now,
		}
		session.relayToHub()
		s.sessions[code] = session
		if s.opts.OnCreate != nil {
			s.opts.OnCreate(session)
		}
		return session, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

// Get looks up a session and marks it as seen.
func (s *Store) Get(code string) *Session {
	s.mu.Lock()
	session := s.sessions[code]
	s.mu.Unlock()
	if session != nil {
		session.Touch(time.Now())
	}
	return session
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	session, ok := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()

	if ok {
		s.closeSession(session)
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, session)
	}
	return list
}

// Close stops the sweeper and closes every session.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
	for _, session := range s.List() {
		s.Delete(session.Code)
	}
}

// Sweep removes sessions not seen within the TTL and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for code, session := range s.sessions {
		if now.Sub(session.LastSeen()) > s.opts.TTL {
			stale = append(stale, session)
			delete(s.sessions, code)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		s.closeSession(session)
	}
	return len(stale)
}

func (s *Store) closeSession(session *Session) {
	session.Close()
	if s.opts.OnDelete != nil {
		s.opts.OnDelete(session)
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				log.Printf("[Session] Swept %d stale sessions\n", n)
			}
		}
	}
}
