package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppSettings struct {
	Port         string
	DatabaseDSN  string
	JWTSecret    string
	JWTTTL       time.Duration
	UploadDir    string
	LogLevel     string
	LogFormat    string
	CorsOrigins  []string
	CookieDomain string
	GeminiModel  string
	Timezone     string
}

var conf *viper.Viper

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.AutomaticEnv()
	return v
}

// Init loads an optional .env file and configures the global logger.
func Init() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			Logger.WithError(err).Fatalf("failed to load %s", envFile)
		}
	}

	conf = newViper()
	configureLogger(conf.GetString("LOG_LEVEL"), conf.GetString("LOG_FORMAT"))
}

// Settings returns a snapshot of the current configuration. Values are read
// from the environment when Init has not been called.
func Settings() AppSettings {
	v := conf
	if v == nil {
		v = newViper()
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return AppSettings{
		Port:         v.GetString("PORT"),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTTTL:       v.GetDuration("JWT_TTL"),
		UploadDir:    v.GetString("UPLOAD_DIR"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
		CorsOrigins:  origins,
		CookieDomain: v.GetString("COOKIE_DOMAIN"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),
		Timezone:     v.GetString("APP_TIMEZONE"),
	}
}
