package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/stmarysschool/points-backend/internal/config"
	"github.com/stmarysschool/points-backend/internal/db"
	"github.com/stmarysschool/points-backend/internal/googleauth"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.SessionSecret == "" && !cfg.DevMode {
		log.Fatal("SESSION_SECRET is required outside dev mode")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	if err := conn.AutoMigrate(&model.User{}, &model.PointEntry{}); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	provider := googleauth.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL)
	srv := server.New(conn, cfg, provider)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	log.Fatalf("server stopped: %v", srv.Start(addr))
}
