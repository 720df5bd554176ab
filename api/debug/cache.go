package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.ClearAll(); err != nil {
		drm.logger.Error("Failed to flush cache", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Failed to clear cache"), gecho.Send())
		return
	}
	drm.logger.Warn("Cache flushed from debug route", gecho.Field("remote", r.RemoteAddr))
	gecho.Success(w, gecho.WithMessage("Cache cleared"), gecho.Send())
}

// ClearCatalogCache drops the category tree and cached listings, optionally
// only one ?kind= (products, services, bundles).
func (drm *DebugRoutesManager) ClearCatalogCache(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	var err error
	if kind == "" {
		err = drm.cacheService.InvalidateCategories()
	} else {
		err = drm.cacheService.InvalidateCatalog(kind)
	}
	if err != nil {
		gecho.InternalServerError(w, gecho.WithMessage("Failed to clear catalog cache"), gecho.Send())
		return
	}
	gecho.Success(w, gecho.WithMessage("Catalog cache cleared"), gecho.Send())
}

// RateLimitStatus shows the counter for ?ip=&endpoint=
func (drm *DebugRoutesManager) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	endpoint := r.URL.Query().Get("endpoint")
	if ip == "" || endpoint == "" {
		gecho.BadRequest(w, gecho.WithMessage("ip and endpoint are required"), gecho.Send())
		return
	}

	status, err := drm.cacheService.GetRateLimitStatus(ip, endpoint)
	if err != nil {
		drm.logger.Error("Failed to read rate limit", gecho.Field("error", err), gecho.Field("ip", ip))
		gecho.InternalServerError(w, gecho.WithMessage("Failed to read rate limit"), gecho.Send())
		return
	}
	gecho.Success(w, gecho.WithData(status), gecho.Send())
}
