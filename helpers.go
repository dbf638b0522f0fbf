package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/muhammadolammi/outreachworker/internal/database"
	"github.com/muhammadolammi/outreachworker/internal/embed"
	"github.com/muhammadolammi/outreachworker/internal/outreach"
	"github.com/muhammadolammi/outreachworker/internal/vectorindex"
	"github.com/streadway/amqp"
)

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("empty %s in environment", key)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("invalid %s in environment: %q", key, v)
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid %s in environment: %q", key, v)
	}
	return f
}

// newEmbedder picks the embedding backend named by EMBEDDER.
func newEmbedder(ctx context.Context, googleAPIKey string) (embed.Func, error) {
	switch name := envOr("EMBEDDER", "gemini"); name {
	case "gemini":
		return embed.Gemini(ctx, googleAPIKey, os.Getenv("GEMINI_EMBED_MODEL"))
	case "ollama":
		return embed.Ollama(envOr("OLLAMA_HOST", "http://localhost:11434"), envOr("OLLAMA_EMBED_MODEL", "nomic-embed-text")), nil
	case "hashing":
		return embed.Hashing(0), nil
	default:
		return nil, fmt.Errorf("unknown EMBEDDER %q (valid: gemini, ollama, hashing)", name)
	}
}

// newOpener picks the vector index backend named by VECTOR_BACKEND.
func newOpener(fn embed.Func) (vectorindex.Opener, error) {
	switch backend := envOr("VECTOR_BACKEND", "sqlite"); backend {
	case "sqlite":
		return vectorindex.SQLiteOpener(envOr("VECTORSTORE_DIR", vectorindex.DefaultDir), fn), nil
	case "qdrant":
		return vectorindex.QdrantOpener(envOr("QDRANT_ADDR", "localhost:6334"), fn), nil
	default:
		return nil, fmt.Errorf("unknown VECTOR_BACKEND %q (valid: sqlite, qdrant)", backend)
	}
}

func toFiles(rows []database.PortfolioFile) []outreach.File {
	files := make([]outreach.File, len(rows))
	for i, r := range rows {
		files[i] = outreach.File{
			ObjectKey: r.ObjectKey,
			Mime:      r.Mime,
			Filename:  r.OriginalFilename,
		}
	}
	return files
}

func publishRequestUpdate(rabbitConn *amqp.Connection, requestID, status, message string) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(RequestUpdate{
		RequestID: requestID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	routingKey := fmt.Sprintf("request.%s", requestID)

	return ch.Publish(
		updatesExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
