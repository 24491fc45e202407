package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	DefaultLocale  string        `env:"DEFAULT_LOCALE" envDefault:"en"`
	Storage        string        `env:"STORAGE" envDefault:"postgres"`
	DiscordWebhook string        `env:"DISCORD_WEBHOOK_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	// AutoStopInterval vaut 0 par défaut : stop_at reste indicatif.
	AutoStopInterval  time.Duration `env:"AUTOSTOP_INTERVAL" envDefault:"0s"`
	SuperuserEmail    string        `env:"FIRST_SUPERUSER_EMAIL"`
	SuperuserPassword string        `env:"FIRST_SUPERUSER_PASSWORD"`
	// DisplayTimezone sert uniquement à l'affichage des dates dans Discord.
	DisplayTimezone string `env:"DISPLAY_TIMEZONE" envDefault:"Europe/Paris"`
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET est requis et ne peut pas être vide")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL doit être positif (%s)", c.TokenTTL)
	}
	if c.AutoStopInterval < 0 {
		return fmt.Errorf("config: AUTOSTOP_INTERVAL ne peut pas être négatif (%s)", c.AutoStopInterval)
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
			c.DatabaseURL = "postgres://localhost:5432/eventpoll?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: STORAGE doit valoir %q ou %q (%q)", StoragePostgres, StorageMemory, c.Storage)
	}

	if (c.SuperuserEmail == "") != (c.SuperuserPassword == "") {
		return fmt.Errorf("config: FIRST_SUPERUSER_EMAIL et FIRST_SUPERUSER_PASSWORD vont ensemble")
	}
	return nil
}
