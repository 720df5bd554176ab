package catalog

import (
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// CatalogRoutesManager serves the public marketing catalog. Only active items
// are visible here.
type CatalogRoutesManager struct {
	logger          *gecho.Logger
	categoryService *services.CategoryService
	productService  *services.ProductService
	offeringService *services.OfferingService
	bundleService   *services.BundleService
}

func NewCatalogRoutesManager(
	logger *gecho.Logger,
	categoryService *services.CategoryService,
	productService *services.ProductService,
	offeringService *services.OfferingService,
	bundleService *services.BundleService,
) *CatalogRoutesManager {
	return &CatalogRoutesManager{
		logger:          logger,
		categoryService: categoryService,
		productService:  productService,
		offeringService: offeringService,
		bundleService:   bundleService,
	}
}

func (crm *CatalogRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/categories", crm.FetchCategories)
		r.Get("/products", crm.FetchProducts)
		r.Get("/products/{id}", crm.FetchProduct)
		r.Get("/services", crm.FetchServices)
		r.Get("/services/{id}", crm.FetchService)
		r.Get("/bundles", crm.FetchBundles)
		r.Get("/bundles/{id}", crm.FetchBundle)
	})
}
