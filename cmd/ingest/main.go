package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"book-chatbot-be/internal/config"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/pkg/database"
	"book-chatbot-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// chunkRecord is one entry of the chunker's JSON output.
type chunkRecord struct {
	Content    string `json:"content"`
	Chapter    string `json:"chapter"`
	Section    string `json:"section"`
	Heading    string `json:"heading"`
	ChunkIndex int    `json:"chunk_index"`
	WordCount  int    `json:"word_count"`
}

func main() {
	filePath := flag.String("file", "", "path to the chunked book JSON")
	docVersion := flag.String("version", "", "document version label for this ingest")
	flag.Parse()

	if *filePath == "" || *docVersion == "" {
		log.Fatal("Error: -file and -version are required")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *filePath, err)
	}
	var records []chunkRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *filePath, err)
	}
	if len(records) == 0 {
		log.Fatal("Error: no chunks found in input file")
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, "")
	}

	color.Cyan("Ingesting %d chunks as version %q...", len(records), *docVersion)

	ctx := context.Background()
	chunks := make([]*entity.BookChunk, 0, len(records))
	for i, rec := range records {
		vector, err := provider.Embed(ctx, rec.Content)
		if err != nil {
			log.Fatalf("Error: Embedding chunk %d failed: %v", i, err)
		}
		wordCount := rec.WordCount
		if wordCount == 0 {
			wordCount = len(strings.Fields(rec.Content))
		}
		chunks = append(chunks, &entity.BookChunk{
			Id:         uuid.New(),
			Content:    rec.Content,
			Chapter:    rec.Chapter,
			Section:    rec.Section,
			Heading:    rec.Heading,
			ChunkIndex: rec.ChunkIndex,
			WordCount:  wordCount,
			DocVersion: *docVersion,
			Embedding:  vector,
		})
		if (i+1)%50 == 0 {
			color.Cyan("Embedded %d/%d chunks...", i+1, len(records))
		}
	}

	// Replace any previous ingest of the same version atomically.
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	if err := uow.BookChunkRepository().DeleteByDocVersion(ctx, *docVersion); err != nil {
		uow.Rollback()
		log.Fatalf("Error: Failed to clear version %q: %v", *docVersion, err)
	}
	if err := uow.BookChunkRepository().CreateBulk(ctx, chunks); err != nil {
		uow.Rollback()
		log.Fatalf("Error: Failed to insert chunks: %v", err)
	}
	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit: %v", err)
	}

	color.Green("Success: Ingested %d chunks (version %q).", len(chunks), *docVersion)
}
