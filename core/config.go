package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	// Config holds every knob the application reads at startup. Values come
	// from defaults, an optional config/.env.<env> file and environment
	// variables prefixed with the current ENV, in increasing precedence.
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		// DataDir is where the JSON collection files live.
		DataDir string

		DefaultFromEmail mail.Address
		AdminEmail       mail.Address
		SendgridApiKey   string
		RollbarToken     string

		FrontendBaseURL string

		Server ServerConfig
		Admin  AdminConfig

		PrayerApiBaseURL string
		ChatApiBaseURL   string
		ChatApiKey       string
	}

	ServerConfig struct {
		Host            string
		Port            string
		ShutdownTimeout time.Duration
		SessionMaxAge   time.Duration
	}

	// AdminConfig is the single fixed credential pair guarding the admin API.
	AdminConfig struct {
		Username string
		Password string
	}
)

func (c ServerConfig) Addr() string { return c.Host + ":" + c.Port }

// NewConfig loads the application configuration for the current ENV
// (DEV when unset; TEST enables TestMode).
func NewConfig() (*Config, error) {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "JoinQuran")
	conf.SetDefault("build", "dev")
	conf.SetDefault("dataDir", filepath.Join(Getwd(), "data"))
	conf.SetDefault("defaultFromEmail", "noreply@joinquran.com")
	conf.SetDefault("adminEmail", "admin@joinquran.com")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8000")
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("sessionMaxAge", 24*time.Hour)
	conf.SetDefault("adminUsername", "admin")
	conf.SetDefault("adminPassword", "")
	conf.SetDefault("prayerApiBaseURL", "https://api.aladhan.com")
	conf.SetDefault("chatApiBaseURL", "")
	conf.SetDefault("chatApiKey", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:              env,
		Debug:            conf.GetBool("debug"),
		TestMode:         testMode,
		AppName:          conf.GetString("appName"),
		Build:            conf.GetString("build"),
		DataDir:          conf.GetString("dataDir"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		AdminEmail:       mail.Address{Address: conf.GetString("adminEmail")},
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Port:            conf.GetString("serverPort"),
			ShutdownTimeout: conf.GetDuration("shutdownTimeout"),
			SessionMaxAge:   conf.GetDuration("sessionMaxAge"),
		},
		Admin: AdminConfig{
			Username: conf.GetString("adminUsername"),
			Password: conf.GetString("adminPassword"),
		},
		PrayerApiBaseURL: conf.GetString("prayerApiBaseURL"),
		ChatApiBaseURL:   conf.GetString("chatApiBaseURL"),
		ChatApiKey:       conf.GetString("chatApiKey"),
	}, nil
}
