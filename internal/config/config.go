package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ZoneConfig declares one monitored zone. The zone set is fixed for the
// lifetime of the process; only limits change afterwards.
type ZoneConfig struct {
	Name      string  `mapstructure:"name"`
	Limit     float64 `mapstructure:"limit"`      // kWh, 0 means unlimited
	BaseUsage float64 `mapstructure:"base_usage"` // simulator baseline draw
}

type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		DSN string
	}
	Monitor struct {
		IntervalSeconds int
		Seed            int64
	}
	Zones []ZoneConfig
	Alert struct {
		Slack struct {
			Token   string
			Channel string
		}
		Email struct {
			SMTPHost    string
			SMTPPort    int
			From        string
			Password    string
			ToReceivers []string
		}
	}
}

func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// LoadConfig reads config.yaml (plus a .env file for secrets) and falls
// back to a default five-zone building when no config file exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("gridsense")
	viper.AutomaticEnv()

	var config Config

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			applyDefaults(&config)
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
		}
	} else {
		if err := viper.Unmarshal(&config); err != nil {
			fmt.Printf("Error unmarshaling config: %v\n", err)
		}
		if config.Monitor.IntervalSeconds <= 0 {
			config.Monitor.IntervalSeconds = 5
		}
		if config.Server.Port == 0 {
			config.Server.Port = 8080
		}
	}

	return &config
}

func applyDefaults(config *Config) {
	config.Server.Port = 8080
	config.Database.DSN = "" // in-memory
	config.Monitor.IntervalSeconds = 5
	config.Zones = []ZoneConfig{
		{Name: "Main Building", Limit: 500, BaseUsage: 380},
		{Name: "East Wing", Limit: 300, BaseUsage: 210},
		{Name: "West Wing", Limit: 300, BaseUsage: 230},
		{Name: "Data Center", Limit: 800, BaseUsage: 650},
		{Name: "Warehouse", Limit: 200, BaseUsage: 120},
	}
}
