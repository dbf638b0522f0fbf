package main

import (
	"github.com/muhammadolammi/outreachworker/internal/database"
	"github.com/muhammadolammi/outreachworker/internal/outreach"
	"github.com/streadway/amqp"
)

type WorkerConfig struct {
	DB          *database.Queries
	Pipeline    *outreach.Pipeline
	RabbitConn  *amqp.Connection
	RABBITMQUrl string
}

// RequestUpdate is published on the updates exchange whenever a request
// changes status.
type RequestUpdate struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

const (
	requestsQueue   = "outreach_requests"
	updatesExchange = "outreach_updates"

	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)
