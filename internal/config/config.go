package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	DBUrl    string `mapstructure:"DB_URL"`
	RedisUrl string `mapstructure:"REDIS_URL"`
	MongoUrl string `mapstructure:"MONGO_URL"`
	NatsUrl  string `mapstructure:"NATS_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	GeocodeBaseUrl    string `mapstructure:"GEOCODE_BASE_URL"`
	GeocodeRegion     string `mapstructure:"GEOCODE_REGION"`
	GeocodeLanguage   string `mapstructure:"GEOCODE_LANGUAGE"`
	DirectionsBaseUrl string `mapstructure:"DIRECTIONS_BASE_URL"`
	ProviderAPIKey    string `mapstructure:"PROVIDER_API_KEY"`
}

func LoadConfig() (c Config, err error) {
	// Get environment type from ENV variable or use development as default
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Set default values
	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("NATS_URL", "nats://127.0.0.1:4222")
	viper.SetDefault("GEOCODE_REGION", "in")
	viper.SetDefault("GEOCODE_LANGUAGE", "en")

	// Load environment file
	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(".") // Look in the project root directory

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		// Continue even if file is not found
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// Map the values to the Config struct
	err = viper.Unmarshal(&c)
	return
}
