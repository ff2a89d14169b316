package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"asistencia/internal/attendance"
	"asistencia/internal/config"
	"asistencia/internal/queue"
	"asistencia/internal/store"
)

// Worker drains check-in messages from redis and appends attendance rows,
// for deployments where the recorder runs apart from the API process.
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

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	q := queue.NewRedisQueue(redisClient.Client, "asistencia:checkins")

	recorder := attendance.NewRecorder(attendance.NewRepository(db.Client), q)

	log.Println("recorder started, waiting for check-ins...")
	if err := recorder.Run(ctx); err != nil {
		log.Fatalf("recorder failed: %v", err)
	}
	log.Println("recorder stopped")
}
