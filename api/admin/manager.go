package admin

import (
	"net/http"
	"poolcare_server/api/middleware"
	"poolcare_server/services"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger            *gecho.Logger
	cfg               *structs.Config
	authService       *services.AuthService
	categoryService   *services.CategoryService
	productService    *services.ProductService
	offeringService   *services.OfferingService
	bundleService     *services.BundleService
	attachmentService *services.AttachmentService
	scheduleService   *services.ScheduleService
	jobService        *services.JobService
	invoiceService    *services.InvoiceService
	paymentService    *services.PaymentService
	quoteService      *services.QuoteService
	poolDNAService    *services.PoolDNAService
	addressService    *services.AddressService
	contactService    *services.ContactService
	mw                *middleware.Middleware
}

func NewAdminRoutesManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:            logger,
		cfg:               cfg,
		authService:       sm.AuthService,
		categoryService:   sm.CategoryService,
		productService:    sm.ProductService,
		offeringService:   sm.OfferingService,
		bundleService:     sm.BundleService,
		attachmentService: sm.AttachmentService,
		scheduleService:   sm.ScheduleService,
		jobService:        sm.JobService,
		invoiceService:    sm.InvoiceService,
		paymentService:    sm.PaymentService,
		quoteService:      sm.QuoteService,
		poolDNAService:    sm.PoolDNAService,
		addressService:    sm.AddressService,
		contactService:    sm.ContactService,
		mw:                mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.RequireAdmin)
		r.Use(ar.mw.CSRFMiddleware())

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ar.ListCategories)
			r.Get("/options", ar.CategoryOptions)
			r.Post("/", ar.CreateCategory)
			r.Get("/{id}", ar.GetCategory)
			r.Put("/{id}", ar.UpdateCategory)
			r.Delete("/{id}", ar.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ar.ListProducts)
			r.Post("/", ar.CreateProduct)
			r.Get("/{id}", ar.GetProduct)
			r.Patch("/{id}", ar.UpdateProduct)
			r.Post("/{id}/toggle", ar.ToggleProduct)
			r.Delete("/{id}", ar.DeleteProduct)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", ar.ListServices)
			r.Post("/", ar.CreateService)
			r.Get("/{id}", ar.GetService)
			r.Patch("/{id}", ar.UpdateService)
			r.Post("/{id}/toggle", ar.ToggleService)
			r.Delete("/{id}", ar.DeleteService)
		})

		r.Route("/bundles", func(r chi.Router) {
			r.Get("/", ar.ListBundles)
			r.Post("/", ar.CreateBundle)
			r.Post("/preview", ar.PreviewBundle)
			r.Get("/{id}", ar.GetBundle)
			r.Put("/{id}", ar.UpdateBundle)
			r.Post("/{id}/toggle", ar.ToggleBundle)
			r.Delete("/{id}", ar.DeleteBundle)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Get("/", ar.ListAttachments)
			r.Post("/", ar.UploadAttachment)
			r.Put("/reorder", ar.ReorderAttachments)
			r.Patch("/{id}", ar.UpdateAttachment)
			r.Delete("/{id}", ar.DeleteAttachment)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", ar.ListSchedules)
			r.Post("/", ar.CreateSchedule)
			r.Get("/{id}", ar.GetSchedule)
			r.Patch("/{id}", ar.UpdateSchedule)
			r.Delete("/{id}", ar.DeleteSchedule)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", ar.ListJobs)
			r.Post("/", ar.CreateJob)
			r.Get("/{id}", ar.GetJob)
			r.Put("/{id}/status", ar.UpdateJobStatus)
			r.Delete("/{id}", ar.DeleteJob)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", ar.ListInvoices)
			r.Post("/", ar.CreateInvoice)
			r.Get("/{id}", ar.GetInvoice)
			r.Post("/{id}/send", ar.SendInvoice)
			r.Post("/{id}/void", ar.VoidInvoice)
			r.Post("/{id}/payments", ar.RecordPayment)
			r.Delete("/{id}", ar.DeleteInvoice)
		})
		r.Get("/payments", ar.ListPayments)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", ar.ListQuotes)
			r.Get("/{id}", ar.GetQuote)
			r.Post("/{id}/price", ar.PriceQuote)
			r.Delete("/{id}", ar.DeleteQuote)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", ar.ListCustomers)
			r.Post("/", ar.CreateCustomer)
			r.Get("/{id}/addresses", ar.ListCustomerAddresses)
			r.Get("/{id}/pool-dna", ar.GetPoolDNA)
			r.Put("/{id}/pool-dna", ar.SavePoolDNA)
			r.Delete("/{id}/pool-dna", ar.DeletePoolDNA)
		})

		r.Route("/contact-messages", func(r chi.Router) {
			r.Get("/", ar.ListContactMessages)
			r.Put("/{id}/handled", ar.SetContactHandled)
			r.Delete("/{id}", ar.DeleteContactMessage)
		})
	})
}

func badID(w http.ResponseWriter, what string) {
	gecho.BadRequest(w, gecho.WithMessage("Invalid "+what+" id"), gecho.Send())
}

func badQuery(w http.ResponseWriter, err error) {
	gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
}
