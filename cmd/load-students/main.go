package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/stmarysschool/points-backend/internal/config"
	"github.com/stmarysschool/points-backend/internal/db"
	"github.com/stmarysschool/points-backend/internal/loader"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("load-students failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s <csv file>", os.Args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if err := conn.AutoMigrate(&model.User{}, &model.PointEntry{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	l := loader.New(repository.NewUserRepository(conn), log.Printf)
	res, err := l.Load(context.Background(), f)
	if err != nil {
		return err
	}

	log.Printf("loaded %d users (%d skipped)", res.Inserted, res.Skipped)
	return nil
}
