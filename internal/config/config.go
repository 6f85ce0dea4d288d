package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string `validate:"oneof=development production test"`
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`

	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Elastic   ElasticConfig
	Catalog   CatalogConfig
	Mail      MailConfig
	Limits    LimitsConfig
	Telemetry TelemetryConfig
}

// APIConfig décrit l'API REST amont (boutique).
type APIConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"`

	// RefreshPolicy : "always" rafraîchit le jeton avant chaque appel authentifié,
	// "expiry" réutilise le jeton tant que son exp est loin.
	RefreshPolicy string        `validate:"oneof=always expiry"`
	ExpirySkew    time.Duration `validate:"gte=0"`
}

type SessionConfig struct {
	Secret       string        `validate:"required,min=16"`
	CookieName   string        `validate:"required"`
	MaxAge       time.Duration `validate:"gt=0"`
	CookieSecure bool
	IdleTTL      time.Duration `validate:"gt=0"`
	CORSOrigins  []string
}

// RedisConfig : Host vide = pas de Redis (sessions en mémoire uniquement).
type RedisConfig struct {
	Host     string
	Password string
	DB       int    `validate:"gte=0"`
}

// ElasticConfig : URL vide = recherche sans index.
type ElasticConfig struct {
	URL      string `validate:"omitempty,url"`
	User     string
	Password string
	Index    string `validate:"required"`
}

type CatalogConfig struct {
	CacheTTL     time.Duration `validate:"gte=0"`
	FallbackPath string
}

// MailConfig : Host vide = pas d'e-mail de confirmation.
type MailConfig struct {
	Host      string
	Port      int    `validate:"gte=0,lte=65535"`
	Username  string
	Password  string
	From      string `validate:"omitempty,email"`
	ShopEmail string `validate:"omitempty,email"`
}

type LimitsConfig struct {
	CartPerMinute int `validate:"gte=0"`
	APIPerMinute  int `validate:"gte=0"`
}

type TelemetryConfig struct {
	TracesStdout bool
}

var defaults = map[string]any{
	"APP_ENV":               "development",
	"PORT":                  "8080",
	"LOG_LEVEL":             "info",
	"API_BASE_URL":          "http://localhost:3050/api",
	"API_TIMEOUT":           "15s",
	"TOKEN_REFRESH_POLICY":  "always",
	"TOKEN_EXPIRY_SKEW":     "30s",
	"SESSION_SECRET":        "",
	"SESSION_COOKIE":        "honnylove_visitor",
	"SESSION_MAX_AGE":       "720h",
	"COOKIE_SECURE":         false,
	"WORKSPACE_IDLE_TTL":    "2h",
	"CORS_ORIGINS":          "http://localhost:5173",
	"REDIS_HOST":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"ELASTIC_URL":           "",
	"ELASTIC_USER":          "",
	"ELASTIC_PASSWORD":      "",
	"ELASTIC_INDEX":         "products",
	"CATALOG_CACHE_TTL":     "5m",
	"FALLBACK_CATALOG_PATH": "",
	"SMTP_HOST":             "",
	"SMTP_PORT":             587,
	"SMTP_USERNAME":         "",
	"SMTP_PASSWORD":         "",
	"MAIL_FROM":             "",
	"SHOP_EMAIL":            "",
	"CART_RATE_LIMIT":       20,
	"API_RATE_LIMIT":        100,
	"OTEL_TRACES_STDOUT":    false,
}

// Load charge le fichier .env (s'il existe) puis lit l'environnement.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper construit la configuration à partir d'une instance viper déjà alimentée.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:   v.GetString("APP_ENV"),
		Port:     v.GetString("PORT"),
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		API: APIConfig{
			BaseURL:       strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout:       v.GetDuration("API_TIMEOUT"),
			RefreshPolicy: strings.ToLower(v.GetString("TOKEN_REFRESH_POLICY")),
			ExpirySkew:    v.GetDuration("TOKEN_EXPIRY_SKEW"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			CookieName:   v.GetString("SESSION_COOKIE"),
			MaxAge:       v.GetDuration("SESSION_MAX_AGE"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
			IdleTTL:      v.GetDuration("WORKSPACE_IDLE_TTL"),
			CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Elastic: ElasticConfig{
			URL:      v.GetString("ELASTIC_URL"),
			User:     v.GetString("ELASTIC_USER"),
			Password: v.GetString("ELASTIC_PASSWORD"),
			Index:    v.GetString("ELASTIC_INDEX"),
		},
		Catalog: CatalogConfig{
			CacheTTL:     v.GetDuration("CATALOG_CACHE_TTL"),
			FallbackPath: v.GetString("FALLBACK_CATALOG_PATH"),
		},
		Mail: MailConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			From:      v.GetString("MAIL_FROM"),
			ShopEmail: v.GetString("SHOP_EMAIL"),
		},
		Limits: LimitsConfig{
			CartPerMinute: v.GetInt("CART_RATE_LIMIT"),
			APIPerMinute:  v.GetInt("API_RATE_LIMIT"),
		},
		Telemetry: TelemetryConfig{
			TracesStdout: v.GetBool("OTEL_TRACES_STDOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate vérifie les tags validate puis les règles croisées.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Mail.Host != "" && c.Mail.From == "" {
		return errors.New("MAIL_FROM requis quand SMTP_HOST est défini")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: règle %q non respectée", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("configuration invalide: %s", strings.Join(msgs, "; "))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
