package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv        string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	GeoIPDBPath   string `mapstructure:"GEOIP_DB_PATH"`
}

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "sqlite://contracker.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_SECRET", "change-me-in-production")
	viper.SetDefault("GEOIP_DB_PATH", "")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
