package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env         string
	Port        string
	ProxyHeader string // e.g. X-Forwarded-For when running behind a proxy; empty uses the socket address
	// TrustedProxies lists the peer IPs or CIDRs whose ProxyHeader is honoured.
	TrustedProxies []string

	AdminPassword string // plain text or a bcrypt hash; also the session signing secret
	DatabaseURL   string
	RedisURL      string // optional; enables the shared login limiter, listing cache and health counters

	S3URI         string // https://<endpoint>/<bucket>
	S3AccessKeyID string
	S3SecretKey   string
	PublicDir     string

	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string

	Event    EventConfig
	Registry RegistryConfig
}

// EventConfig is the gated event metadata shown once an invitation is resolved.
type EventConfig struct {
	CoupleNames  string
	Date         string
	Time         string
	Location     string
	Address      string
	RSVPDeadline string
}

// RegistryConfig holds the gift registry payment links.
type RegistryConfig struct {
	VenmoURL  string
	PayPalURL string
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// StorageConfigured reports whether all object storage settings are present.
func (c *Config) StorageConfigured() bool {
	return c.S3URI != "" && c.S3AccessKeyID != "" && c.S3SecretKey != ""
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PUBLIC_DIR", "public")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		ProxyHeader:         viper.GetString("PROXY_HEADER"),
		TrustedProxies:      splitList(viper.GetString("TRUSTED_PROXIES")),
		AdminPassword:       viper.GetString("ADMIN_PASSWORD"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		S3URI:               strings.TrimSpace(viper.GetString("S3_URI")),
		S3AccessKeyID:       viper.GetString("S3_ACCOUNT_ID"),
		S3SecretKey:         viper.GetString("S3_ACCOUNT_SECRET"),
		PublicDir:           viper.GetString("PUBLIC_DIR"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		Event: EventConfig{
			CoupleNames:  viper.GetString("COUPLE_NAMES"),
			Date:         viper.GetString("EVENT_DATE"),
			Time:         viper.GetString("EVENT_TIME"),
			Location:     viper.GetString("EVENT_LOCATION"),
			Address:      viper.GetString("EVENT_ADDRESS"),
			RSVPDeadline: viper.GetString("RSVP_DEADLINE"),
		},
		Registry: RegistryConfig{
			VenmoURL:  viper.GetString("VENMO_URL"),
			PayPalURL: viper.GetString("PAYPAL_URL"),
		},
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
