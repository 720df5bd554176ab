package services

import (
	"context"
	"poolcare_server/database"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var startedAt = time.Now()

type ServerHealthStatus struct {
	ServiceAlive  bool          `json:"service_alive"`
	CurrentTime   time.Time     `json:"current_time"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Runtime       RuntimeStatus `json:"runtime"`
}

type RuntimeStatus struct {
	Goroutines int    `json:"goroutines"`
	HeapMB     uint64 `json:"heap_mb"`
	SysMB      uint64 `json:"sys_mb"`
	GCCycles   uint32 `json:"gc_cycles"`
}

type DependencyHealthStatus struct {
	Connected  bool           `json:"connected"`
	CheckedAt  time.Time      `json:"checked_at"`
	LatencyMs  int64          `json:"latency_ms"`
	Connection map[string]any `json:"connection,omitempty"`
}

type HealthService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService) *HealthService {
	return &HealthService{logger: logger, db: db, cache: cache}
}

func (hs *HealthService) GetServerHealthStatus() ServerHealthStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ServerHealthStatus{
		ServiceAlive:  true,
		CurrentTime:   time.Now(),
		UptimeSeconds: time.Since(startedAt).Seconds(),
		Runtime: RuntimeStatus{
			Goroutines: runtime.NumGoroutine(),
			HeapMB:     m.HeapAlloc >> 20,
			SysMB:      m.Sys >> 20,
			GCCycles:   m.NumGC,
		},
	}
}

// probe times check and logs under name when it fails. stats is read after
// the check so it reflects the connection the check used.
func (hs *HealthService) probe(name string, check func() error, stats func() map[string]any) (DependencyHealthStatus, error) {
	start := time.Now()
	err := check()
	status := DependencyHealthStatus{
		Connected:  err == nil,
		CheckedAt:  time.Now(),
		LatencyMs:  time.Since(start).Milliseconds(),
		Connection: stats(),
	}
	if err != nil {
		hs.logger.Error(name+" health check failed", gecho.Field("error", err))
	}
	return status, err
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (DependencyHealthStatus, error) {
	return hs.probe("Database",
		func() error { return hs.db.Health(ctx) },
		func() map[string]any {
			s := hs.db.Stats()
			return map[string]any{
				"open":       s.OpenConnections,
				"in_use":     s.InUse,
				"idle":       s.Idle,
				"wait_count": s.WaitCount,
			}
		},
	)
}

func (hs *HealthService) GetCacheHealthStatus() (DependencyHealthStatus, error) {
	return hs.probe("Cache", hs.cache.Ping, hs.cache.GetConnectionStats)
}

// OpenConnections reports the size of the database pool for metrics.
func (hs *HealthService) OpenConnections() int {
	return hs.db.Stats().OpenConnections
}
