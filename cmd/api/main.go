package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"asistencia/internal/attendance"
	"asistencia/internal/config"
	"asistencia/internal/device"
	"asistencia/internal/enroll"
	"asistencia/internal/httpmiddleware"
	"asistencia/internal/metrics"
	"asistencia/internal/queue"
	"asistencia/internal/roster"
	"asistencia/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	if db != nil {
		if err := store.EnsureSchema(ctx, db.Client, cfg.SessionID, cfg.SessionName); err != nil {
			log.Printf("warning: schema bootstrap failed: %v", err)
		}
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "asistencia:checkins")
	}

	mailbox := device.NewMailbox()
	staging := enroll.NewStaging()
	students := roster.NewRepository(db.Client)
	enrollSvc := enroll.NewService(staging, students)
	attRepo := attendance.NewRepository(db.Client)
	recognizer := attendance.NewService(students, q, cfg.SessionID)

	// With the in-memory queue the check-ins only exist in this process, so
	// the recorder has to run here. The redis backend is drained by cmd/worker.
	if cfg.QueueBackend == "memory" {
		recorder := attendance.NewRecorder(attRepo, q)
		go func() {
			if err := recorder.Run(ctx); err != nil {
				log.Printf("recorder stopped: %v", err)
			}
		}()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics", "/get-command"},
	}))
	r.Use(corsMiddleware())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := cfg.QueueBackend == "memory" || redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil && db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	// Operator queues a command for the scanner's next poll.
	r.GET("/set-command", func(c *gin.Context) {
		kind := c.Query("command")
		cmd, err := mailbox.Set(kind, c.Query("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		metrics.CommandsSet.WithLabelValues(kind).Inc()
		c.JSON(http.StatusOK, gin.H{"status": "command set", "command": cmd})
	})

	// Scanner poll. 204 means nothing pending, which the firmware treats as
	// "keep polling", not as an error.
	r.GET("/get-command", func(c *gin.Context) {
		cmd, ok := mailbox.Take()
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		metrics.CommandsDelivered.Inc()
		c.String(http.StatusOK, cmd)
	})

	// Scanner posts the captured template, hex-encoded.
	r.POST("/enroll", func(c *gin.Context) {
		var req struct {
			ID       int    `json:"id"`
			Template string `json:"template" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if err := enrollSvc.Capture(req.ID, req.Template); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	r.GET("/found", func(c *gin.Context) {
		if enrollSvc.Staged() {
			c.JSON(http.StatusOK, gin.H{"status": "found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found"})
	})

	// Operator commits the staged capture into a student record.
	r.POST("/save", func(c *gin.Context) {
		var req struct {
			ID       int    `json:"id"`
			Nombre   string `json:"nombre"`
			Apellido string `json:"apellido"`
			Rol      string `json:"rol"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if err := enrollSvc.Commit(c.Request.Context(), req.ID, req.Nombre, req.Apellido, req.Rol); err != nil {
			if errors.Is(err, enroll.ErrInvalidRole) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "id": req.ID})
	})

	// Scanner posts the id its local match produced.
	r.POST("/recognize", func(c *gin.Context) {
		var req struct {
			ID int `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		id, err := recognizer.Recognize(c.Request.Context(), req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrNotRecognized) {
				c.JSON(http.StatusNotFound, gin.H{"status": "not_recognized"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "recognized", "id": id})
	})

	r.GET("/asistencia", func(c *gin.Context) {
		rows, err := attRepo.Report(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if rows == nil {
			rows = []attendance.ReportRow{}
		}
		c.JSON(http.StatusOK, rows)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stops the in-process recorder; a check-in still in the memory queue at
	// this point is lost, same as a pending command.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests from the operator console.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
