package health

import (
	"context"
	"net/http"
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
)

type healthChecker interface {
	GetServerHealthStatus() services.ServerHealthStatus
	GetDatabaseHealthStatus(ctx context.Context) (services.DependencyHealthStatus, error)
	GetCacheHealthStatus() (services.DependencyHealthStatus, error)
	OpenConnections() int
}

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w, gecho.WithData(hrm.healthService.GetServerHealthStatus()), gecho.Send())
}

func (hrm *HealthRoutesManager) GetDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.GetDatabaseHealthStatus(r.Context())
	respondDependency(w, "Database", status, err)
}

func (hrm *HealthRoutesManager) GetCacheHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.GetCacheHealthStatus()
	respondDependency(w, "Cache", status, err)
}

func (hrm *HealthRoutesManager) GetRealtimeHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w, gecho.WithData(map[string]int{"subscribers": hrm.subscribers.Clients()}), gecho.Send())
}

// respondDependency answers 503 with the probe details when a backing service is down.
func respondDependency(w http.ResponseWriter, name string, status services.DependencyHealthStatus, err error) {
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage(name+" health check failed"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w, gecho.WithData(status), gecho.Send())
}
