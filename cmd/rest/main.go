package main

import (
	"context"
	"log"

	"ai-lifeos-be/internal/bootstrap"
	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/server"
	"ai-lifeos-be/internal/tracer"
	"ai-lifeos-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
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

	// 4. Start Background Services
	ctx := context.Background()

	container.AnalysisService.Start()
	defer container.AnalysisService.Stop()

	if err := container.StreamService.Consume(ctx); err != nil {
		log.Printf("Background Stream Error: %v", err)
	}

	container.RetentionService.Start(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
