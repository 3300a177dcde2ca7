package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"campusattend/internal/attendance"
	"campusattend/internal/config"
	"campusattend/internal/course"
	"campusattend/internal/dashboard"
	"campusattend/internal/dataset"
	"campusattend/internal/door"
	"campusattend/internal/doorclient"
	"campusattend/internal/facedata"
	"campusattend/internal/faceclient"
	"campusattend/internal/httpapi"
	"campusattend/internal/notification"
	"campusattend/internal/queue"
	"campusattend/internal/report"
	"campusattend/internal/room"
	"campusattend/internal/roomaccess"
	"campusattend/internal/session"
	"campusattend/internal/store"
	"campusattend/internal/system"
	"campusattend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := store.Migrate(migrateCtx, db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	sessions := session.NewRedisStore(redisClient.Client, cfg.SessionTTL)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "campusattend:jobs")
	}

	faceSvc := faceclient.New(cfg.FaceServiceURL, cfg.FaceSkip)
	doorSvc := doorclient.New(cfg.DoorServiceURL, cfg.DoorSkip)
	datasets := dataset.NewFSStore(cfg.DatasetDir)

	users := user.NewService(user.NewPGRepository(db.Client))
	courses := course.NewService(course.NewPGRepository(db.Client))
	attendanceSvc := attendance.NewService(attendance.NewPGRepository(db.Client))
	reports := report.NewService(attendanceSvc)
	dashboardSvc := dashboard.NewService(
		dashboard.NewPGRepository(db.Client), datasets, cfg.DatasetScanTTL,
		db, redisClient, faceSvc, doorSvc)
	roomAccess := roomaccess.NewService(roomaccess.NewPGRepository(db.Client))
	rooms := room.NewService(room.NewPGRepository(db.Client))
	notifications := notification.NewService(notification.NewPGRepository(db.Client))
	doors := door.NewService(door.NewPGRepository(db.Client),
		cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	faceData := facedata.NewService(facedata.NewPGRepository(db.Client), datasets, faceSvc,
		attendance.NewPGRepository(db.Client))
	settings := system.NewService(system.NewPGRepository(db.Client))

	server := httpapi.New(httpapi.Deps{
		Config:        cfg,
		DB:            db,
		Redis:         redisClient,
		Sessions:      sessions,
		Jobs:          jobs,
		Users:         users,
		Courses:       courses,
		Attendance:    attendanceSvc,
		Reports:       reports,
		Dashboard:     dashboardSvc,
		RoomAccess:    roomAccess,
		Rooms:         rooms,
		Notifications: notifications,
		Doors:         doors,
		Face:          faceData,
		Settings:      settings,
		DoorClient:    doorSvc,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("server exited")
	return nil
}
