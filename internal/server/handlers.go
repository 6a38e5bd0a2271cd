package server

import (
	"aimtrainer/internal/db"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/sessions"
	"aimtrainer/internal/targets"
	"aimtrainer/internal/wshub"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const sessionCookie = "session_code"

type Server struct {
	Sessions   *sessions.Store
	Tmpl       *template.Template
	Metrics    *metrics.Metrics
	DB         *db.DB            // nil if no database configured
	ShotBuffer chan db.ShotEvent // nil if no database configured
}

func (s *Server) sessionCreated(session *sessions.Session) {
	s.Metrics.Sessions.Inc()
	if s.DB != nil {
		if err := s.DB.CreateSession(session.ID, session.Code, string(session.Game.Get().Shape)); err != nil {
			log.Printf("[DB] CreateSession error: %v\n", err)
		}
	}
}

func (s *Server) sessionDeleted(*sessions.Session) {
	s.Metrics.Sessions.Dec()
}

// getSession resolves the current session from the session_code cookie,
// falling back to a ?code= query parameter.
func (s *Server) getSession(r *http.Request) *sessions.Session {
	code := r.URL.Query().Get("code")
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		code = cookie.Value
	}
	if code == "" {
		return nil
	}
	return s.Sessions.Get(strings.ToUpper(code))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if session := s.getSession(r); session != nil {
		http.Redirect(w, r, "/s/"+session.Code, http.StatusSeeOther)
		return
	}
	if err := s.Tmpl.ExecuteTemplate(w, "home", nil); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering home page", http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	shape, err := targets.ParseShape(r.FormValue("shape"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := s.Sessions.Create(shape)
	if err != nil {
		log.Println(err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Code,
		Path:     "/",
		HttpOnly: true,
	})

	log.Printf("[Session] Created %s (%s)\n", session.Code, shape)
	http.Redirect(w, r, "/s/"+session.Code, http.StatusSeeOther)
}

func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	session := s.Sessions.Get(code)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Code,
		Path:     "/",
		HttpOnly: true,
	})

	data := struct {
		Code string
		gamedata.GameData
	}{session.Code, session.Game.Get()}
	if err := s.Tmpl.ExecuteTemplate(w, "game", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering game view", http.StatusInternalServerError)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session := s.getSession(r)
	if session == nil {
		http.Error(w, "Session not found", http.StatusBadRequest)
		return
	}
	writeJSON(w, session.Game.Get())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	session := s.getSession(r)
	if session == nil {
		http.Error(w, "Session not found", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	msg := wshub.ClientMessage{
		Type: r.PathValue("command"),
		X:    formFloat(r, "x"),
		Y:    formFloat(r, "y"),
		W:    formFloat(r, "w"),
		H:    formFloat(r, "h"),
		Size: r.FormValue("tier"),
	}
	if err := s.apply(session, msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, session.Game.Get())
}

// apply routes one client command into the session's game loop.
func (s *Server) apply(session *sessions.Session, msg wshub.ClientMessage) error {
	session.Touch(time.Now())
	game := session.Game
	switch msg.Type {
	case "start":
		game.Start()
	case "pause":
		game.Pause()
	case "reset":
		game.Reset()
	case "click":
		s.recordShot(session, game.Click(targets.Point{X: msg.X, Y: msg.Y}))
	case "move":
		game.Move(targets.Point{X: msg.X, Y: msg.Y})
		return nil
	case "size":
		tier, err := targets.ParseSizeTier(msg.Size)
		if err != nil {
			return err
		}
		game.SetSizeTier(tier)
	case "resize":
		game.Resize(targets.Bounds{Width: msg.W, Height: msg.H})
	default:
		return fmt.Errorf("unknown command: %q", msg.Type)
	}
	s.Metrics.ObserveCommand(msg.Type)
	return nil
}

func (s *Server) recordShot(session *sessions.Session, res gamedata.ShotResult) {
	if !res.Counted {
		return
	}
	s.Metrics.ObserveShot(res.Hit, res.ReactionMs)

	if s.ShotBuffer == nil {
		return
	}
	ev := db.ShotEvent{
		SessionID: session.ID,
		Hit:       res.Hit,
		ClickX:    res.Point.X,
		ClickY:    res.Point.Y,
		ClickedAt: res.At,
	}
	if t := res.Target; t != nil {
		ev.TargetID = sql.NullInt64{Int64: int64(t.ID), Valid: true}
		ev.TargetX = sql.NullFloat64{Float64: t.X, Valid: true}
		ev.TargetY = sql.NullFloat64{Float64: t.Y, Valid: true}
		ev.AppearedAt = sql.NullTime{Time: t.AppearedAt, Valid: true}
		if t.Shape == targets.ShapeRect {
			ev.TargetWidth = sql.NullFloat64{Float64: t.Width, Valid: true}
			ev.TargetHeight = sql.NullFloat64{Float64: t.Height, Valid: true}
			ev.SizeTier = sql.NullString{String: string(session.Game.SizeTier()), Valid: true}
		} else {
			ev.TargetRadius = sql.NullFloat64{Float64: t.Radius, Valid: true}
		}
	}
	if res.Hit {
		ev.ReactionMs = sql.NullInt64{Int64: res.ReactionMs, Valid: true}
	}

	select {
	case s.ShotBuffer <- ev:
	default:
		log.Println("[DB] Shot buffer full, dropping event")
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	session := s.getSession(r)
	if session == nil {
		http.Error(w, "Session not found", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := session.Broadcaster.Subscribe()
	defer session.Broadcaster.Unsubscribe(msgChan)

	snapshot, _ := json.Marshal(session.Game.Get())
	writeEvent(w, "snapshot", string(snapshot))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			session.Touch(time.Now())
			writeEvent(w, msg.Event, msg.Msg)
			flusher.Flush()
		}
	}
}

// handleShotLog reports what the shot log holds for the current session.
func (s *Server) handleShotLog(w http.ResponseWriter, r *http.Request) {
	session := s.getSession(r)
	if session == nil {
		http.Error(w, "Session not found", http.StatusBadRequest)
		return
	}

	logged := struct {
		Enabled bool `json:"enabled"`
		Shots   int  `json:"shots"`
		Hits    int  `json:"hits"`
	}{}
	if s.DB != nil {
		shots, hits, err := s.DB.CountShots(session.ID)
		if err != nil {
			log.Printf("[DB] CountShots error: %v\n", err)
			http.Error(w, "Failed to read shot log", http.StatusInternalServerError)
			return
		}
		logged.Enabled, logged.Shots, logged.Hits = true, shots, hits
	}
	writeJSON(w, logged)
}

func writeEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]any{
		"status":   "ok",
		"sessions": len(s.Sessions.List()),
	}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			status["status"] = "db_error"
			status["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
	json.NewEncoder(w).Encode(status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

func formFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.FormValue(key), 64)
	if err != nil {
		return 0
	}
	return f
}
