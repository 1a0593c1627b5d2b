package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// QueueInspector reports on the background e-mail queues.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	inspector QueueInspector
	queues    []string
	version   string
}

// NewHealthHandler builds the health endpoints. redis and inspector are
// optional.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, inspector QueueInspector, queues []string, version string) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, inspector: inspector, queues: queues, version: version}
}

type QueueStatus struct {
	Pending int `json:"pending"`
	Active  int `json:"active"`
	Retry   int `json:"retry"`
	Failed  int `json:"failed"`
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]string      `json:"services"`
	Queues    map[string]QueueStatus `json:"queues,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	services := make(map[string]string)
	status := "healthy"

	if err := h.pingDB(ctx); err != nil {
		services["database"] = "unhealthy"
		status = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			services["redis"] = "unhealthy"
			status = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	var queues map[string]QueueStatus
	if h.inspector != nil && services["redis"] == "healthy" {
		queues = make(map[string]QueueStatus, len(h.queues))
		for _, name := range h.queues {
			info, err := h.inspector.GetQueueInfo(name)
			if err != nil {
				// A queue that never received a task does not exist yet.
				continue
			}
			queues[name] = QueueStatus{
				Pending: info.Pending,
				Active:  info.Active,
				Retry:   info.Retry,
				Failed:  info.Failed,
			}
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Services:  services,
		Queues:    queues,
	})
}

// Ready reports whether the database accepts connections.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
