package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	Storage   *StorageConfig
	Payments  *PaymentsConfig
	RateLimit *RateLimitConfig
	Realtime  *RealtimeConfig
	Routes    *RoutesConfig
	Security  *SecurityConfig
}

type ServerConfig struct {
	AppName        string        // Poolcare
	Environment    string        // development, production
	Port           string        // :8082
	ServerURL      string        // public URL of this API
	FrontendURL    string        // marketing site + dashboard
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      bool
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AutoMigrate  bool
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	CategoryTreeTTL time.Duration
	CatalogListTTL  time.Duration
	RoleTTL         time.Duration
	UserTTL         time.Duration
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	BlacklistCacheTTL  time.Duration
	CookieDomain       string
}

type EmailConfig struct {
	ApiKey     string
	From       string
	AdminInbox string
	Enabled    bool
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string // empty for AWS, set for S3-compatible services
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxUploadSize int64
	ACL           string
}

type PaymentsConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	DefaultTaxRate      float64 // percent, applied to taxable invoice lines
	InvoiceDueDays      int
}

type RateLimitConfig struct {
	Enabled          bool
	GeneralLimit     int
	GeneralWindow    time.Duration
	AuthLimit        int
	AuthWindow       time.Duration
	AdminLimit       int
	AdminWindow      time.Duration
	PublicFormLimit  int
	PublicFormWindow time.Duration
}

type RealtimeConfig struct {
	ScheduleChannel string
	PingPeriod      time.Duration
	PongWait        time.Duration
	ReconnectDelay  time.Duration
}

type RoutesConfig struct {
	LoginPath    string
	AdminHome    string
	CustomerHome string
}

type SecurityConfig struct {
	EncryptionKey string // 32 bytes, AES-256 for pool access notes
}
