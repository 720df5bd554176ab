package catalog

import (
	"net/http"
	"poolcare_server/handling"
	"strings"

	"github.com/MonkyMars/gecho"
)

// FetchCategories handles GET /catalog/categories with the tree and the
// flattened option list.
func (crm *CatalogRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	listing, err := crm.categoryService.List(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"tree":    listing.Tree,
			"options": listing.Options,
		}),
		gecho.Send(),
	)
}

// FetchProducts handles GET /catalog/products with filtering, pagination, and sorting
func (crm *CatalogRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseCatalogListOptions(r)
	if err != nil {
		crm.logger.Debug("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	result, err := crm.productService.List(r.Context(), opts, true)
	if err != nil {
		handling.RespondError(err, "Failed to fetch products", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid product id"), gecho.Send())
		return
	}

	product, err := crm.productService.Get(r.Context(), id, true)
	if err != nil {
		handling.RespondError(err, "Failed to fetch product", crm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]any{"product": product}), gecho.Send())
}

func (crm *CatalogRoutesManager) FetchServices(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseCatalogListOptions(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	result, err := crm.offeringService.List(r.Context(), opts, true)
	if err != nil {
		handling.RespondError(err, "Failed to fetch services", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"services":   result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchService(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid service id"), gecho.Send())
		return
	}

	service, err := crm.offeringService.Get(r.Context(), id, true)
	if err != nil {
		handling.RespondError(err, "Failed to fetch service", crm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]any{"service": service}), gecho.Send())
}

func (crm *CatalogRoutesManager) FetchBundles(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	result, err := crm.bundleService.List(r.Context(), page, pageSize, strings.TrimSpace(r.URL.Query().Get("search")), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch bundles", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"bundles":    result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

func (crm *CatalogRoutesManager) FetchBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid bundle id"), gecho.Send())
		return
	}

	bundle, err := crm.bundleService.Get(r.Context(), id, true)
	if err != nil {
		handling.RespondError(err, "Failed to fetch bundle", crm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]any{"bundle": bundle}), gecho.Send())
}
