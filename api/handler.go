package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/viktsys/tefassync/ingest"
	"go.uber.org/zap"
)

// SyncHandler runs one sync for a trigger payload.
type SyncHandler func(ctx context.Context, event json.RawMessage, invocation any) error

// Invocation describes the HTTP request that triggered a run.
type Invocation struct {
	RequestID  string
	RemoteAddr string
	ReceivedAt time.Time
}

// TriggerSync runs one sync per request. A request that arrives while a run
// is in progress gets 409 and does not start another.
func TriggerSync(run SyncHandler, log *zap.Logger) gin.HandlerFunc {
	var running sync.Mutex

	return func(c *gin.Context) {
		if !running.TryLock() {
			log.Warn("Sync already running, rejecting trigger")
			c.JSON(http.StatusConflict, gin.H{"error": "sync already running"})
			return
		}
		defer running.Unlock()

		event, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inv := Invocation{
			RequestID:  c.GetHeader("X-Request-Id"),
			RemoteAddr: c.ClientIP(),
			ReceivedAt: time.Now(),
		}

		if err := run(c.Request.Context(), event, inv); err != nil {
			log.Error("Sync run failed", zap.Error(err), zap.String("kind", errorKind(err)))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": errorKind(err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func errorKind(err error) string {
	var (
		cfgErr *ingest.ConfigurationError
		srcErr *ingest.SourceFetchError
		stErr  *ingest.StoreError
		delErr *ingest.DeletionError
		insErr *ingest.InsertionError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &srcErr):
		return "source_fetch"
	case errors.As(err, &stErr):
		return "store"
	case errors.As(err, &delErr):
		return "deletion"
	case errors.As(err, &insErr):
		return "insertion"
	default:
		return "unknown"
	}
}

func SetupRoutes(run SyncHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/sync", TriggerSync(run, log))

	return r
}
