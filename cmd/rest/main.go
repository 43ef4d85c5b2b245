package main

import (
	"context"
	"log"
	"time"

	"book-chatbot-be/internal/bootstrap"
	"book-chatbot-be/internal/config"
	"book-chatbot-be/internal/server"
	"book-chatbot-be/internal/tracer"
	"book-chatbot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.Auth.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := container.AuthService.SweepExpiredSessions(context.Background())
			if err != nil {
				log.Printf("Background: Session sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Background: Swept %d expired sessions", removed)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
