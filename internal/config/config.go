package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	StorageURL          string // storage base URL, used for signed upload URLs and public URLs
	StorageSecretKey    string // must be the service key, not the publishable key
	ResendAPIKey        string
	TurnstileSecretKey  string
	MailFrom            string // sender for contact emails (default noreply@artbridge.app)
	SupportEmail        string // inbox receiving contact notifications
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	ValuationTTLSeconds int
	ValuationMaxDrift   float64
	ValuationIndexDrift float64
	MinBidIncrement     float64
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	ttl := viper.GetInt("VALUATION_TTL_SECONDS")
	if ttl <= 0 {
		ttl = 300
	}
	maxDrift := viper.GetFloat64("VALUATION_MAX_DRIFT")
	if maxDrift <= 0 {
		maxDrift = 0.10
	}
	minIncrement := viper.GetFloat64("MIN_BID_INCREMENT")
	if minIncrement <= 0 {
		minIncrement = 0.05
	}

	mailFrom := viper.GetString("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = "noreply@artbridge.app"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		StorageURL:          viper.GetString("STORAGE_URL"),
		StorageSecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		TurnstileSecretKey:  viper.GetString("TURNSTILE_SECRET_KEY"),
		MailFrom:            mailFrom,
		SupportEmail:        viper.GetString("SUPPORT_EMAIL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		ValuationTTLSeconds: ttl,
		ValuationMaxDrift:   maxDrift,
		ValuationIndexDrift: viper.GetFloat64("VALUATION_INDEX_DRIFT"),
		MinBidIncrement:     minIncrement,
	}, nil
}
