package config

import (
	"poolcare_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without touching the singleton.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Poolcare_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			ServerURL:      getEnvAsString("SERVER_URL", "http://localhost:8082"),
			FrontendURL:    getEnvAsString("FRONTEND_URL", "http://localhost:3000"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 10<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "poolcare_db"),
			SSLMode:      getEnvAsBool("DB_SSL", false),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			CategoryTreeTTL: getEnvAsTimeDuration("CACHE_CATEGORY_TREE_TTL", 10*time.Minute),
			CatalogListTTL:  getEnvAsTimeDuration("CACHE_CATALOG_LIST_TTL", 5*time.Minute),
			RoleTTL:         getEnvAsTimeDuration("CACHE_ROLE_TTL", 15*time.Minute),
			UserTTL:         getEnvAsTimeDuration("CACHE_USER_TTL", 15*time.Minute),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry:  getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenSecret: getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", "default_refresh_secret"),
			RefreshTokenExpiry: getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			BlacklistCacheTTL:  getEnvAsTimeDuration("AUTH_BLACKLIST_TTL", 24*time.Hour),
			CookieDomain:       getEnvAsString("AUTH_COOKIE_DOMAIN", ""),
		},
		Email: &structs.EmailConfig{
			ApiKey:     getEnvAsString("RESEND_API_KEY", ""),
			From:       getEnvAsString("EMAIL_FROM", "Poolcare <noreply@localhost>"),
			AdminInbox: getEnvAsString("EMAIL_ADMIN_INBOX", "office@localhost"),
			Enabled:    getEnvAsBool("EMAIL_ENABLED", false),
		},
		Storage: &structs.StorageConfig{
			Bucket:        getEnvAsString("STORAGE_BUCKET", "poolcare-media"),
			Region:        getEnvAsString("STORAGE_REGION", "us-east-1"),
			Endpoint:      getEnvAsString("STORAGE_ENDPOINT", ""),
			AccessKey:     getEnvAsString("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnvAsString("STORAGE_SECRET_KEY", ""),
			PublicBaseURL: getEnvAsString("STORAGE_PUBLIC_BASE_URL", ""),
			MaxUploadSize: int64(getEnvAsInt("STORAGE_MAX_UPLOAD_SIZE", 10<<20)),
			ACL:           getEnvAsString("STORAGE_ACL", "public-read"),
		},
		Payments: &structs.PaymentsConfig{
			StripeSecretKey:     getEnvAsString("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret: getEnvAsString("STRIPE_WEBHOOK_SECRET", ""),
			Currency:            getEnvAsString("PAYMENTS_CURRENCY", "usd"),
			DefaultTaxRate:      getEnvAsFloat("INVOICE_TAX_RATE", 0),
			InvoiceDueDays:      getEnvAsInt("INVOICE_DUE_DAYS", 14),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:          getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralLimit:     getEnvAsInt("RATE_LIMIT_GENERAL", 300),
			GeneralWindow:    getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			AuthLimit:        getEnvAsInt("RATE_LIMIT_AUTH", 10),
			AuthWindow:       getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			AdminLimit:       getEnvAsInt("RATE_LIMIT_ADMIN", 600),
			AdminWindow:      getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
			PublicFormLimit:  getEnvAsInt("RATE_LIMIT_PUBLIC_FORMS", 5),
			PublicFormWindow: getEnvAsTimeDuration("RATE_LIMIT_PUBLIC_FORMS_WINDOW", 10*time.Minute),
		},
		Realtime: &structs.RealtimeConfig{
			ScheduleChannel: getEnvAsString("REALTIME_SCHEDULE_CHANNEL", "schedules_changes"),
			PingPeriod:      getEnvAsTimeDuration("REALTIME_PING_PERIOD", 30*time.Second),
			PongWait:        getEnvAsTimeDuration("REALTIME_PONG_WAIT", 60*time.Second),
			ReconnectDelay:  getEnvAsTimeDuration("REALTIME_RECONNECT_DELAY", 2*time.Second),
		},
		Routes: &structs.RoutesConfig{
			LoginPath:    getEnvAsString("ROUTE_LOGIN_PATH", "/login"),
			AdminHome:    getEnvAsString("ROUTE_ADMIN_HOME", "/admin"),
			CustomerHome: getEnvAsString("ROUTE_CUSTOMER_HOME", "/dashboard"),
		},
		Security: &structs.SecurityConfig{
			EncryptionKey: getEnvAsString("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef"),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
