package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/handlers"
	"github.com/aurifex/jewelry_backend/middlewares"
	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = "8080"

var tracer = otel.Tracer("jewelry-backend")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// tracingMiddleware opens a span per request so handler latency shows up next
// to the otelgorm query spans.
func tracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func registerRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/vendors", handlers.CreateVendor)
	api.GET("/vendors", handlers.GetVendors)
	api.GET("/vendors/:id", handlers.GetVendor)
	api.PUT("/vendors/:id", handlers.UpdateVendor)
	api.DELETE("/vendors/:id", handlers.DeactivateVendor)

	api.POST("/customers", handlers.CreateCustomer)
	api.GET("/customers", handlers.GetCustomers)
	api.GET("/customers/:id", handlers.GetCustomer)
	api.PUT("/customers/:id", handlers.UpdateCustomer)
	api.DELETE("/customers/:id", handlers.DeactivateCustomer)

	api.POST("/inventory", handlers.CreateInventoryItem)
	api.GET("/inventory", handlers.GetInventoryItems)
	api.GET("/inventory/:id", handlers.GetInventoryItem)
	api.PUT("/inventory/:id", handlers.UpdateInventoryItem)
	api.DELETE("/inventory/:id", handlers.DeactivateInventoryItem)

	api.POST("/memos", handlers.CreateMemo)
	api.GET("/memos", handlers.GetMemos)
	api.GET("/memos/:id", handlers.GetMemo)
	api.PUT("/memos/:id", handlers.UpdateMemo)
	api.DELETE("/memos/:id", handlers.DeleteMemo)
	api.GET("/memos/:id/actions", handlers.GetMemoAvailableActions)
	api.POST("/memos/:id/send", handlers.SendMemoToVendor)
	api.POST("/memos/:id/receive", handlers.MarkMemoReceived)
	api.POST("/memos/:id/return", handlers.MarkMemoReturned)
	api.POST("/memos/:id/payment", handlers.ReceiveMemoPayment)
	api.POST("/memos/:id/archive", handlers.ArchiveMemo)
	api.POST("/memos/:id/cancel", handlers.CancelMemo)
	api.POST("/memos/:id/change-status", handlers.ChangeMemoStatus)
	api.POST("/memos/:id/items/:itemId/restock", handlers.RestockMemoItem)

	api.POST("/repairs", handlers.CreateRepair)
	api.GET("/repairs", handlers.GetRepairs)
	api.GET("/repairs/:id", handlers.GetRepair)
	api.PUT("/repairs/:id", handlers.UpdateRepair)
	api.DELETE("/repairs/:id", handlers.DeleteRepair)
	api.GET("/repairs/:id/actions", handlers.GetRepairAvailableActions)
	api.POST("/repairs/:id/send", handlers.SendRepairToVendor)
	api.POST("/repairs/:id/receive", handlers.MarkRepairReceived)
	api.POST("/repairs/:id/complete", handlers.CompleteRepair)
	api.POST("/repairs/:id/reject", handlers.RejectRepair)
	api.POST("/repairs/:id/payment", handlers.ReceiveRepairPayment)
	api.POST("/repairs/:id/archive", handlers.ArchiveRepair)
	api.POST("/repairs/:id/cancel", handlers.CancelRepair)
	api.POST("/repairs/:id/change-status", handlers.ChangeRepairStatus)
	api.POST("/repairs/:id/items/:itemId/restock", handlers.RestockRepairItem)

	api.POST("/returns", handlers.CreateReturn)
	api.GET("/returns", handlers.GetReturns)
	api.GET("/returns/:id", handlers.GetReturn)
	api.PUT("/returns/:id", handlers.UpdateReturn)
	api.DELETE("/returns/:id", handlers.DeleteReturn)
	api.GET("/returns/:id/actions", handlers.GetReturnAvailableActions)
	api.POST("/returns/:id/receive", handlers.ReceiveReturnItems)
	api.POST("/returns/:id/refund", handlers.RefundReturn)
	api.POST("/returns/:id/reject", handlers.RejectReturn)
	api.POST("/returns/:id/archive", handlers.ArchiveReturn)
	api.POST("/returns/:id/cancel", handlers.CancelReturn)
	api.POST("/returns/:id/change-status", handlers.ChangeReturnStatus)
	api.POST("/returns/:id/items/:itemId/restock", handlers.RestockReturnItem)

	api.GET("/invoices", handlers.GetInvoices)
	api.GET("/invoices/:id", handlers.GetInvoice)
	api.GET("/refunds", handlers.GetRefunds)

	api.GET("/activities/:docType/:id", handlers.GetActivityLogs)

	api.GET("/reports/document-register", handlers.GetDocumentRegisterReport)
	api.GET("/reports/document-register/export", handlers.ExportDocumentRegisterExcel)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated); otherwise allow all for developer convenience.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization",
		"X-Store-Id", "X-User-Id", "X-User-Name", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "X-Correlation-Id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.RequestContextMiddleware())
	r.Use(tracingMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())
	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.MigrateTable(db); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Panic(err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api/v1")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
