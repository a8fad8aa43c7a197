package main

import (
	"context"
	"log"

	"notekeeper-be/internal/bootstrap"
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/server"
	"notekeeper-be/internal/tracer"
	"notekeeper-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (optional)
	if cfg.App.TracingEnabled {
		shutdownTracer := tracer.InitTracer()
		defer shutdownTracer(context.Background())
	}

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// Schema is auto-created from the model definitions
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
