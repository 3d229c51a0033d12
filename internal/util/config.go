package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds runtime settings. Flags override fields after LoadConfig.
type Config struct {
	DSN             string `envconfig:"DATABASE_URL"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	APIPort         int    `envconfig:"API_PORT" default:"3001"`
	Origin          string `envconfig:"GUIDE_ORIGIN" default:"http://localhost:5173"`
	Theme           string `envconfig:"GUIDE_THEME" default:"stripe"`
	LogFile         string `envconfig:"GUIDE_LOG_FILE"`
	LogLevel        string `envconfig:"GUIDE_LOG_LEVEL" default:"info"`
	DemoAmount      int64  `envconfig:"GUIDE_DEMO_AMOUNT" default:"2000"`
	DemoCurrency    string `envconfig:"GUIDE_DEMO_CURRENCY" default:"usd"`
	DemoProduct     string `envconfig:"GUIDE_DEMO_PRODUCT" default:"Stripe Guide Demo Payment"`
	Version         string `ignored:"true"`
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}
	cfg.DemoCurrency = strings.ToLower(cfg.DemoCurrency)
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile()
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return errors.Errorf("API_PORT %d out of range", c.APIPort)
	}
	if c.DemoAmount <= 0 {
		return errors.Errorf("GUIDE_DEMO_AMOUNT must be positive, got %d", c.DemoAmount)
	}
	if len(c.DemoCurrency) != 3 {
		return errors.Errorf("GUIDE_DEMO_CURRENCY %q is not a three-letter code", c.DemoCurrency)
	}
	return nil
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "stripe-guide.log")
	}
	return filepath.Join(home, ".stripe-guide", "guide.log")
}
