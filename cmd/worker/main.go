package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"campusattend/internal/attendance"
	"campusattend/internal/config"
	"campusattend/internal/dataset"
	"campusattend/internal/facedata"
	"campusattend/internal/faceclient"
	"campusattend/internal/notification"
	"campusattend/internal/queue"
	"campusattend/internal/store"
)

// The worker consumes face verification jobs and notification messages
// published by the API.
func main() {
	_ = godotenv.Load()
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

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "campusattend:jobs")
	}

	face := faceclient.New(cfg.FaceServiceURL, cfg.FaceSkip)
	if !cfg.FaceSkip {
		if err := face.Health(ctx); err != nil {
			log.Printf("WARNING: face service not available: %v", err)
		} else {
			log.Println("face service connected")
		}
	}

	faceData := facedata.NewService(
		facedata.NewPGRepository(db.Client),
		dataset.NewFSStore(cfg.DatasetDir),
		face,
		attendance.NewPGRepository(db.Client))
	notifications := notification.NewService(notification.NewPGRepository(db.Client))

	messages, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Type {
		case queue.TypeFaceVerify:
			var job facedata.VerifyJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad face-verify payload: %v", err)
				continue
			}
			if err := faceData.ProcessVerification(ctx, job); err != nil {
				log.Printf("verification for attendance %s failed: %v", job.AttendanceID, err)
				continue
			}
			log.Printf("attendance %s verified", job.AttendanceID)

		case queue.TypeNotify:
			var n notification.Notification
			if err := json.Unmarshal(msg.Body, &n); err != nil {
				log.Printf("bad notify payload: %v", err)
				continue
			}
			if err := notifications.Notify(ctx, n); err != nil {
				log.Printf("notification insert for user %s failed: %v", n.UserID, err)
				continue
			}

		default:
			log.Printf("skipping unknown message type %q", msg.Type)
		}
	}

	log.Println("worker stopped")
}
