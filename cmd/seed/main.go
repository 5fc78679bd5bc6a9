package main

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/database"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/inference"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type demoActivity struct {
	hoursAgo    float64
	appName     string
	windowTitle string
	activity    string
	intent      string
	tags        []string
	priority    string
}

// Demo data for trying out queries and synthesis against a fresh
// database without running capture producers.
var demoActivities = []demoActivity{
	{26, "Code", "api_server.go - lifeos", "Writing a REST endpoint for activity capture in Go", "Building the backend API", []string{"coding", "go", "backend"}, "medium"},
	{25, "Chrome", "pgvector cosine distance - Google Search", "Researching vector similarity search in Postgres", "Choosing a vector index", []string{"research", "database"}, "low"},
	{24, "Terminal", "psql", "Creating database tables and the vector extension", "Setting up storage", []string{"database", "setup"}, "low"},
	{8, "Mail", "Compose: Quarterly report", "Composing an email about the quarterly report, mentions an attached file", "Sending the report to the team", []string{"email", "report"}, "medium"},
	{6, "Slack", "#engineering", "Discussing deployment schedule with the team", "Coordinating the release", []string{"communication", "deployment"}, "low"},
	{4, "Code", "api_server.go - lifeos", "Writing a REST endpoint for activity capture in Go", "Building the backend API", []string{"coding", "go", "backend"}, "medium"},
	{2, "Chrome", "Gemini API docs", "Reading the generateContent API reference", "Integrating the vision model", []string{"research", "ai"}, "low"},
	{1, "Notion", "Project roadmap - deadline Friday EOD", "Updating the project roadmap, a deadline is due Friday", "Planning next milestones", []string{"planning", "deadline"}, "medium"},
}

func main() {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var provider embedding.Provider
	if cfg.Keys.GoogleGemini != "" {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		cyan.Println("Embedding provider configured, demo records will be indexed")
	} else {
		yellow.Println("GOOGLE_GEMINI_API_KEY not set, seeding records without index entries")
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	now := time.Now()
	seeded, indexed := 0, 0

	for _, d := range demoActivities {
		ts := now.Add(-time.Duration(d.hoursAgo * float64(time.Hour)))
		analysis := &inference.AnalysisResult{
			Activity: d.activity,
			Intent:   d.intent,
			Issues:   []string{},
			Tags:     d.tags,
			Priority: d.priority,
		}
		analysis.Normalize()

		activity := &entity.Activity{
			Id:          uuid.New(),
			Timestamp:   ts,
			Modality:    "screen",
			AppName:     d.appName,
			WindowTitle: d.windowTitle,
			Analysis:    analysis,
			Tags:        analysis.Tags,
			Priority:    analysis.Priority,
			CreatedAt:   ts,
		}
		if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
			yellow.Printf("Skipping %q: %v\n", d.activity, err)
			continue
		}
		seeded++

		if provider == nil {
			continue
		}
		vector, err := provider.Generate(ctx, d.activity, embedding.TaskDocument)
		if err != nil {
			yellow.Printf("Index skipped for %q: %v\n", d.activity, err)
			continue
		}
		err = uow.ActivityEmbeddingRepository().Upsert(ctx, &entity.ActivityEmbedding{
			ActivityId: activity.Id,
			Document:   d.activity,
			Embedding:  vector,
			AppName:    d.appName,
			Tags:       strings.Join(d.tags, ","),
			Priority:   d.priority,
			CreatedAt:  ts,
		})
		if err != nil {
			yellow.Printf("Index write failed for %q: %v\n", d.activity, err)
			continue
		}
		indexed++
	}

	green.Printf("✅ Seeded %d demo activities (%d indexed)\n", seeded, indexed)
	cyan.Println("Try: POST /api/query/v1/ask {\"query\": \"what did I do yesterday\"}")
}
