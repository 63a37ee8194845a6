package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// AuthSigningKey signs the HMAC session tokens issued by the login
	// endpoint. Required outside development.
	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`
	// TokenTTLMinutes bounds session token lifetime.
	TokenTTLMinutes int `mapstructure:"TOKEN_TTL_MINUTES"`

	// Compliance rule knobs. These parameterize the rule engine so tests and
	// regional deployments can swap them without code changes.
	NurseDailyHourCap  int    `mapstructure:"NURSE_DAILY_HOUR_CAP"`
	DoctorMinutesMin   int    `mapstructure:"DOCTOR_MINUTES_MIN"`
	ShiftAStart        string `mapstructure:"SHIFT_A_START"`
	ShiftAEnd          string `mapstructure:"SHIFT_A_END"`
	ShiftBStart        string `mapstructure:"SHIFT_B_START"`
	ShiftBEnd          string `mapstructure:"SHIFT_B_END"`
	ComplianceCronSpec string `mapstructure:"COMPLIANCE_CRON"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("TOKEN_TTL_MINUTES", 480)
	v.SetDefault("NURSE_DAILY_HOUR_CAP", 8)
	v.SetDefault("DOCTOR_MINUTES_MIN", 60)
	v.SetDefault("SHIFT_A_START", "08:00")
	v.SetDefault("SHIFT_A_END", "16:00")
	v.SetDefault("SHIFT_B_START", "14:00")
	v.SetDefault("SHIFT_B_END", "22:00")
	v.SetDefault("COMPLIANCE_CRON", "0 2 * * *")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("NURSE_DAILY_HOUR_CAP")
	v.BindEnv("DOCTOR_MINUTES_MIN")
	v.BindEnv("SHIFT_A_START")
	v.BindEnv("SHIFT_A_END")
	v.BindEnv("SHIFT_B_START")
	v.BindEnv("SHIFT_B_END")
	v.BindEnv("COMPLIANCE_CRON")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; all requests act as a manager.")
		log.Println("WARNING: Set ENV=production and AUTH_SIGNING_KEY for production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development,
// AUTH_SIGNING_KEY must be set so login tokens can be verified, and the rule
// knobs must describe an enforceable policy.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required when ENV=%q", c.Env)
	}
	if c.NurseDailyHourCap <= 0 || c.NurseDailyHourCap > 24 {
		return fmt.Errorf("NURSE_DAILY_HOUR_CAP must be between 1 and 24, got %d", c.NurseDailyHourCap)
	}
	if c.DoctorMinutesMin < 0 {
		return fmt.Errorf("DOCTOR_MINUTES_MIN must be >= 0, got %d", c.DoctorMinutesMin)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be > 0, got %d", c.TokenTTLMinutes)
	}
	return nil
}
