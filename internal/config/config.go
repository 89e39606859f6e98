package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Session SessionConfig
	Scan    ScanConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	Path string
}

type SessionConfig struct {
	LoginDelayMs       int
	MaxNotifications   int
	KeepNotifsOnLogout bool
}

type ScanConfig struct {
	GenerateDelayMs   int // simulated decode delay
	DetectIntervalMs  int
	DetectProbability float64
}

func Load() *Config {
	// Populate the process environment from .env before viper reads it
	_ = godotenv.Load()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("STORE_PATH", "munc.db")
	viper.SetDefault("SESSION_LOGIN_DELAY_MS", 1000)
	viper.SetDefault("SESSION_MAX_NOTIFICATIONS", 50)
	viper.SetDefault("SESSION_KEEP_NOTIFICATIONS_ON_LOGOUT", true)
	viper.SetDefault("SCAN_GENERATE_DELAY_MS", 500)
	viper.SetDefault("SCAN_DETECT_INTERVAL_MS", 2000)
	viper.SetDefault("SCAN_DETECT_PROBABILITY", 0.3)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Store: StoreConfig{
			Path: viper.GetString("STORE_PATH"),
		},
		Session: SessionConfig{
			LoginDelayMs:       viper.GetInt("SESSION_LOGIN_DELAY_MS"),
			MaxNotifications:   viper.GetInt("SESSION_MAX_NOTIFICATIONS"),
			KeepNotifsOnLogout: viper.GetBool("SESSION_KEEP_NOTIFICATIONS_ON_LOGOUT"),
		},
		Scan: ScanConfig{
			GenerateDelayMs:   viper.GetInt("SCAN_GENERATE_DELAY_MS"),
			DetectIntervalMs:  viper.GetInt("SCAN_DETECT_INTERVAL_MS"),
			DetectProbability: viper.GetFloat64("SCAN_DETECT_PROBABILITY"),
		},
	}
}
