package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Database struct {
		Host         string
		Port         int
		User         string
		Password     string
		DatabaseName string
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	Pricing struct {
		TaxRate               float64
		ServiceFeeRate        float64
		FreeDeliveryThreshold float64
		DeliveryBaseFee       float64
		DeliveryPerMileFee    float64
		DeliveryFeeCap        float64
		DefaultDistanceMiles  float64
	}
	RateLimit struct {
		AuthWindowSec int
		AuthMax       int
		AuthBlockSec  int
		APIWindowSec  int
		APIMax        int
		APIBlockSec   int
	}
}

var path string = "config.yaml"

// LoadConfig reads config.yaml. Unset pricing and ratelimit keys keep the
// compiled defaults.
func LoadConfig() (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Section headers (database:, rabbitmq:, pricing:, ratelimit:)
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		// Key: value pairs
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		// Assign values
		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = val
			case "port":
				cfg.Database.Port = atoi(val)
			case "user":
				cfg.Database.User = val
			case "password":
				cfg.Database.Password = val
			case "database":
				cfg.Database.DatabaseName = val
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.RabbitMQ.Host = val
			case "port":
				cfg.RabbitMQ.Port = atoi(val)
			case "user":
				cfg.RabbitMQ.User = val
			case "password":
				cfg.RabbitMQ.Password = val
			}
		case "pricing":
			switch key {
			case "tax_rate":
				cfg.Pricing.TaxRate = atof(val)
			case "service_fee_rate":
				cfg.Pricing.ServiceFeeRate = atof(val)
			case "free_delivery_threshold":
				cfg.Pricing.FreeDeliveryThreshold = atof(val)
			case "delivery_base_fee":
				cfg.Pricing.DeliveryBaseFee = atof(val)
			case "delivery_per_mile_fee":
				cfg.Pricing.DeliveryPerMileFee = atof(val)
			case "delivery_fee_cap":
				cfg.Pricing.DeliveryFeeCap = atof(val)
			case "default_distance_miles":
				cfg.Pricing.DefaultDistanceMiles = atof(val)
			}
		case "ratelimit":
			switch key {
			case "auth_window_seconds":
				cfg.RateLimit.AuthWindowSec = atoi(val)
			case "auth_max_attempts":
				cfg.RateLimit.AuthMax = atoi(val)
			case "auth_block_seconds":
				cfg.RateLimit.AuthBlockSec = atoi(val)
			case "api_window_seconds":
				cfg.RateLimit.APIWindowSec = atoi(val)
			case "api_max_attempts":
				cfg.RateLimit.APIMax = atoi(val)
			case "api_block_seconds":
				cfg.RateLimit.APIBlockSec = atoi(val)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Pricing.TaxRate = 0.0975
	cfg.Pricing.ServiceFeeRate = 0.15
	cfg.Pricing.FreeDeliveryThreshold = 150.00
	cfg.Pricing.DeliveryBaseFee = 5.99
	cfg.Pricing.DeliveryPerMileFee = 1.50
	cfg.Pricing.DeliveryFeeCap = 15.00
	cfg.Pricing.DefaultDistanceMiles = 5
	cfg.RateLimit.AuthWindowSec = 900
	cfg.RateLimit.AuthMax = 5
	cfg.RateLimit.AuthBlockSec = 1800
	cfg.RateLimit.APIWindowSec = 60
	cfg.RateLimit.APIMax = 100
	cfg.RateLimit.APIBlockSec = 60
	return cfg
}

func atoi(val string) int {
	num, _ := strconv.Atoi(val)
	return num
}

func atof(val string) float64 {
	num, _ := strconv.ParseFloat(val, 64)
	return num
}
