package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishradar/internal/queue"
	"dishradar/internal/server"
	"dishradar/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"dishradar/pkg/dishes"
	"dishradar/pkg/logger"
	"dishradar/pkg/logger/console"
	"dishradar/pkg/store"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	aiClient := server.NewAIClient(ctx)
	cache := server.NewResultCache(ctx)
	searcher, fetcher := server.NewVenueProvider()

	service := dishes.NewService(dishes.NewServiceParams{
		Searcher:    searcher,
		Fetcher:     fetcher,
		Extractor:   dishes.NewReviewExtractor(aiClient),
		Cache:       cache,
		CacheTTL:    time.Duration(util.GetEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		ParallelMax: util.GetEnvInt("AI_PARALLEL_REQ", 4),
		MaxRetries:  util.GetEnvInt("EXTRACT_MAX_RETRIES", 2),
	})

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.WarmQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// Expired cache entries read as misses either way; the sweep just keeps
	// the backing store from growing without bound.
	if sweeper, ok := cache.(store.Sweeper); ok {
		interval := time.Duration(util.GetEnvInt("SWEEP_INTERVAL_SECONDS", 600)) * time.Second
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					removed, err := sweeper.Sweep(ctx)
					if err != nil {
						logger.Error("Cache sweep failed", "err", err)
						continue
					}
					if removed > 0 {
						logger.Info("Swept expired cache entries", "removed", removed)
					}
				}
			}
		}()
	}

	logger.Info("Listening for messages")

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.WarmQueue,
		queue.WarmQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.WarmQueue, "err", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.WarmQueue)
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.WarmQueue)

				processingErr := queue.ProcessWarmMessage(ctx, service, string(msg.Body))
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.WarmQueue, "err", processingErr)
					handleProcessingError(consumerCh, msg, queue.WarmQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.WarmQueue)
				}

				metrics := aiClient.GetMetrics()
				logger.Info(
					"AI Metrics",
					"input_tokens", metrics.InputTokens,
					"output_tokens", metrics.OutputTokens,
					"total_tokens", metrics.TotalTokens,
					"duration_ms", metrics.DurationMs,
				)
				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Millisecond))
				aiClient.ResetMetrics()
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// After 10 attempts the message goes to the dead-letter queue.
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
