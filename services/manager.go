package services

import (
	"poolcare_server/database"
	"poolcare_server/storage"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

type ServiceManager struct {
	AuthService       *AuthService
	RoleService       *RoleService
	EmailService      *EmailService
	CacheService      *CacheService
	HealthService     *HealthService
	CategoryService   *CategoryService
	AttachmentService *AttachmentService
	ProductService    *ProductService
	OfferingService   *OfferingService
	BundleService     *BundleService
	AddressService    *AddressService
	ScheduleService   *ScheduleService
	JobService        *JobService
	InvoiceService    *InvoiceService
	PaymentService    *PaymentService
	QuoteService      *QuoteService
	PoolDNAService    *PoolDNAService
	ContactService    *ContactService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, redisClient *redis.Client, store storage.ObjectStore) *ServiceManager {
	cacheService := NewCacheService(logger, cfg, redisClient)
	emailService := NewEmailService(logger, cfg)

	categoryService := NewCategoryService(logger, cfg, db, cacheService)
	attachmentService := NewAttachmentService(logger, cfg, db, store)
	productService := NewProductService(logger, cfg, db, cacheService, categoryService, attachmentService)
	offeringService := NewOfferingService(logger, cfg, db, cacheService, categoryService, attachmentService)
	bundleService := NewBundleService(logger, cfg, db, cacheService, productService, offeringService, attachmentService)

	resolver := &lineResolver{products: productService, offerings: offeringService, bundles: bundleService}
	scheduleService := NewScheduleService(logger, db, offeringService)
	invoiceService := NewInvoiceService(logger, cfg, db, emailService, resolver)

	return &ServiceManager{
		AuthService:       NewAuthService(cfg, logger, db, cacheService),
		RoleService:       NewRoleService(logger, db, cacheService),
		EmailService:      emailService,
		CacheService:      cacheService,
		HealthService:     NewHealthService(logger, db, cacheService),
		CategoryService:   categoryService,
		AttachmentService: attachmentService,
		ProductService:    productService,
		OfferingService:   offeringService,
		BundleService:     bundleService,
		AddressService:    NewAddressService(logger, db),
		ScheduleService:   scheduleService,
		JobService:        NewJobService(logger, db, scheduleService),
		InvoiceService:    invoiceService,
		PaymentService:    NewPaymentService(logger, cfg, db, invoiceService),
		QuoteService:      NewQuoteService(logger, db, emailService, resolver),
		PoolDNAService:    NewPoolDNAService(logger, cfg, db),
		ContactService:    NewContactService(logger, db, emailService),
	}
}
