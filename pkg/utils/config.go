package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// SecurityConfig carries key material for the signature service and the auth
// token issuer, plus the character-class rules applied to logins and passwords
// at registration time. The patterns are configuration, not code.
type SecurityConfig struct {
	SignatureSecret string
	AuthSecret      string
	AuthExpiryHours int
	LoginPattern    string
	PasswordPattern string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("AUTH_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("LOGIN_PATTERN", `^[A-Za-z0-9_.-]+$`)
	viper.SetDefault("PASSWORD_PATTERN", `^[\x21-\x7E]+$`)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Security: SecurityConfig{
			SignatureSecret: viper.GetString("SIGNATURE_SECRET"),
			AuthSecret:      viper.GetString("AUTH_SECRET"),
			AuthExpiryHours: viper.GetInt("AUTH_EXPIRY_HOURS"),
			LoginPattern:    viper.GetString("LOGIN_PATTERN"),
			PasswordPattern: viper.GetString("PASSWORD_PATTERN"),
		},
	}

	return config, nil
}
