package server

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/sessions"
	"aimtrainer/internal/targets"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"
)

func Run() error {
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	srv := &Server{
		Tmpl:    parseTemplates("templates"),
		Metrics: metrics.New(),
	}
	srv.Sessions = sessions.NewStore(sessions.Options{
		Game:     gameConfig(appCfg),
		TTL:      time.Duration(appCfg.SessionTTLMins) * time.Minute,
		OnCreate: srv.sessionCreated,
		OnDelete: srv.sessionDeleted,
	})
	defer srv.Sessions.Close()

	// Optional shot log
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.ShotBuffer = make(chan db.ShotEvent, 1000)
			defer database.StartShotWriter(srv.ShotBuffer)()
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

func gameConfig(appCfg config.Config) gamedata.Config {
	cfg := gamedata.DefaultConfig()
	cfg.Bounds = targets.Bounds{Width: float64(appCfg.CanvasWidth), Height: float64(appCfg.CanvasHeight)}
	cfg.SpawnInterval = time.Duration(appCfg.SpawnIntervalMs) * time.Millisecond
	cfg.RenderInterval = time.Duration(appCfg.RenderIntervalMs) * time.Millisecond
	cfg.RemoveDelay = time.Duration(appCfg.RemoveDelayMs) * time.Millisecond
	cfg.HistorySize = appCfg.HistorySize
	return cfg
}

func parseTemplates(dir string) *template.Template {
	funcMap := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFiles(
		dir+"/home.html",
		dir+"/game.html",
	))
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /sessions/create", s.handleCreateSession)
	mux.HandleFunc("GET /s/{code}", s.handleSessionPage)
	mux.HandleFunc("GET /session/state", s.handleState)
	mux.HandleFunc("POST /session/{command}", s.handleCommand)
	mux.HandleFunc("GET /session/log", s.handleShotLog)
	mux.HandleFunc("GET /session/events", s.handleEvents)
	mux.HandleFunc("GET /session/ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
