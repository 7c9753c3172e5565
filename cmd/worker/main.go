package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrattend/internal/attendance"
	"qrattend/internal/config"
	"qrattend/internal/queue"
	"qrattend/internal/store"
)

// Worker tails the attendance audit stream. Marks are already durable by the
// time an event arrives; this is the place for notification and audit-log
// fan-out, kept out of the request path.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var events queue.Queue
	if cfg.QueueBackend == "memory" {
		events = queue.NewInMemory(64)
	} else {
		events = queue.NewRedisQueue(redisClient.Client, "qrattend:events")
	}

	messages, err := events.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for events...")
	for msg := range messages {
		if msg.Type != "attendance.marked" {
			continue
		}

		var evt attendance.MarkedEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("bad event payload: %v", err)
			continue
		}

		log.Printf("attendance marked: record=%d session=%d student=%d course=%d at=%s",
			evt.RecordID, evt.SessionID, evt.StudentID, evt.CourseID, evt.MarkedAt.Format(time.RFC3339))
	}

	log.Println("worker stopped")
}
