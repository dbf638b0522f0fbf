package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	"github.com/muhammadolammi/outreachworker/internal/chain"
	"github.com/muhammadolammi/outreachworker/internal/database"
	"github.com/muhammadolammi/outreachworker/internal/outreach"
	"github.com/muhammadolammi/outreachworker/internal/portfolio"
	"github.com/muhammadolammi/outreachworker/internal/r2"
	"github.com/muhammadolammi/outreachworker/internal/scrape"
	"github.com/streadway/amqp"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbUrl := requireEnv("DB_URL")
	rabbitmqUrl := requireEnv("RABBITMQ_URL")

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}
	dbqueries := database.New(db)

	r2Config := r2.Config{
		AccountID: requireEnv("R2_ACCOUNT_ID"),
		Bucket:    requireEnv("R2_BUCKET"),
		AccessKey: requireEnv("R2_ACCESS_KEY"),
		SecretKey: requireEnv("R2_SECRET_KEY"),
	}
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	googleApiKey := requireEnv("GOOGLE_API_KEY")
	generator, err := chain.NewAgentGenerator(ctx, googleApiKey, envOr("LLM_MODEL", chain.DefaultModel), "outreach_writer")
	if err != nil {
		log.Fatalf("failed to create agent: %v", err)
	}

	embedder, err := newEmbedder(ctx, googleApiKey)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}
	opener, err := newOpener(embedder)
	if err != nil {
		log.Fatalf("failed to create vector index: %v", err)
	}

	pipeline := outreach.NewPipeline(
		chain.New(generator),
		scrape.NewFetcher(nil, envFloat("SCRAPE_RPS", 1)),
		r2.New(awsConfig, r2Config),
		opener,
		envInt("LINKS_PER_SKILL", portfolio.DefaultResults),
	)

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("error opening RabbitMQ channel. err: %v", err)
	}
	if err := ch.ExchangeDeclare(updatesExchange, "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("error declaring %s exchange. err: %v", updatesExchange, err)
	}
	ch.Close()

	workerConfig := WorkerConfig{
		DB:          dbqueries,
		Pipeline:    pipeline,
		RABBITMQUrl: rabbitmqUrl,
		RabbitConn:  conn,
	}

	numWorkers := envInt("WORKER_COUNT", 3)
	fmt.Printf("Starting %d workers consumer pool\n", numWorkers)
	workerConfig.StartConsumerWorkerPool(numWorkers)
}
