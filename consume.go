package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/outreachworker/internal/database"
	"github.com/muhammadolammi/outreachworker/internal/outreach"
	"github.com/muhammadolammi/outreachworker/internal/retry"
	"github.com/streadway/amqp"
)

// processRequest loads the request's uploads, runs the pipeline and stores
// the generated emails.
func processRequest(ctx context.Context, req outreach.Request, workerConfig *WorkerConfig) error {
	rows, err := workerConfig.DB.GetPortfolioFilesByRequest(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("error getting portfolio files for request: %v, err: %w", req.ID, err)
	}

	result, err := workerConfig.Pipeline.Run(ctx, req, toFiles(rows))
	if err != nil {
		return err
	}
	log.Printf("request %s: %d emails generated (%d portfolio rows inserted, %d skipped)",
		req.ID, len(result.Emails), result.Inserted, result.Skipped)

	resultsJSON, err := json.Marshal(result.Emails)
	if err != nil {
		return fmt.Errorf("failed to marshal generated emails: %w", err)
	}

	_, err = retry.Do(ctx, 3, func() (any, error) {
		return nil, workerConfig.DB.CreateOrUpdateGeneratedEmails(ctx, database.CreateOrUpdateGeneratedEmailsParams{
			Results:   resultsJSON,
			RequestID: req.ID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save generated emails after retries: %w", err)
	}
	return nil
}

func setStatus(workerConfig *WorkerConfig, req outreach.Request, status, message string) {
	err := workerConfig.DB.UpdateRequestStatus(context.Background(), database.UpdateRequestStatusParams{
		Status: status,
		ID:     req.ID,
	})
	if err != nil {
		log.Printf("failed to update status of request %s to %s: %v", req.ID, status, err)
	}
	if err := publishRequestUpdate(workerConfig.RabbitConn, req.ID.String(), status, message); err != nil {
		log.Println("failed to publish update:", err)
	}
}

// failureMessage is what the user gets to see for a failed request.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, outreach.ErrInvalidRequest), errors.Is(err, outreach.ErrNoPortfolio):
		return err.Error()
	default:
		return "email generation failed"
	}
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		requestsQueue, // queue name
		true,          // durable (survives broker restarts)
		false,         // auto-delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}
	// one unacknowledged request per worker
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatalf("Failed to set qos: %v", err)
	}

	msgs, err := ch.Consume(
		requestsQueue, // queue name
		"",            // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		req := outreach.Request{}
		if err := json.Unmarshal(msg.Body, &req); err != nil {
			log.Printf("error unmarshalling message body. err: %v", err)
			setStatus(workerConfig, req, statusFailed, "malformed request")
			msg.Ack(false)
			continue
		}
		log.Printf("Worker %d processing request. request_id: %s", id+1, req.ID)
		setStatus(workerConfig, req, statusProcessing, "email generation started")

		if err := processRequest(context.Background(), req, workerConfig); err != nil {
			log.Printf("error processing request_id: %v. err: %v", req.ID, err)
			setStatus(workerConfig, req, statusFailed, failureMessage(err))
			msg.Ack(false)
			continue
		}

		setStatus(workerConfig, req, statusCompleted, "email generation completed")
		msg.Ack(false)
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
