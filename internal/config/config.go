// Package config loads CrossFund's process configuration: server bind
// address, aggregator API keys, per-chain RPC overrides, the KMS signer
// endpoint, NATS/event, CORS and admin-access settings. Grounded on the
// teacher's config.go YAML-plus-environment-override pattern.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is CrossFund's complete process configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	NATS       NATSConfig       `yaml:"nats"`
	Aggregators AggregatorConfig `yaml:"aggregators"`
	RPC        RPCConfig        `yaml:"rpc"`
	KMS        KMSConfig        `yaml:"kms"`
	CORS       CORSConfig       `yaml:"cors"`
	Admin      AdminConfig      `yaml:"admin"`
}

// ServerConfig is the HTTP server bind address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig is the execution-audit store's connection.
type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
}

// NATSConfig is the NATS connection used to publish execution events.
type NATSConfig struct {
	URL           string `yaml:"url"`
	TimeoutSec    int    `yaml:"timeoutSec"`
	ReconnectWait int    `yaml:"reconnectWaitSec"`
	MaxReconnects int    `yaml:"maxReconnects"`
}

// AggregatorConfig holds the per-adapter API keys from spec §8's
// environment variable list.
type AggregatorConfig struct {
	ZeroXAPIKey   string `yaml:"zeroXApiKey"`
	OneInchAPIKey string `yaml:"oneInchApiKey"`
	SocketAPIKey  string `yaml:"socketApiKey"`
	LiFiAPIKey    string `yaml:"lifiApiKey"`
}

// RPCConfig overrides the chain registry's default RPC endpoints and
// carries the optional node-provider API keys used to build them.
type RPCConfig struct {
	AlchemyAPIKey string              `yaml:"alchemyApiKey"`
	InfuraAPIKey  string              `yaml:"infuraApiKey"`
	Overrides     map[uint64][]string `yaml:"overrides"`
}

// KMSConfig is the remote signer the Executor submits transactions
// through.
type KMSConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	AuthToken string `yaml:"authToken"`
	KeyAlias  string `yaml:"keyAlias"`
	Address   string `yaml:"address"`
}

// CORSConfig configures the HTTP server's allowed origins.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowCredentials bool     `yaml:"allowCredentials"`
	MaxAge           int      `yaml:"maxAge"`
}

// AdminConfig holds the admin API's source-IP allowlist and the JWT
// secret that internal/admin signs and checks admin tokens with.
type AdminConfig struct {
	AllowedIPs []string `yaml:"allowedIPs"`
	JWTSecret  string   `yaml:"jwtSecret"`
}

// AppConfig is the process-wide loaded configuration.
var AppConfig *Config

// Load reads configPath; when configPath is empty it reads
// config.local.yaml if that file exists, otherwise config.yaml. A given
// path that cannot be read is an error. It then applies environment
// overrides and stores the result in AppConfig.
func Load(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
		if _, err := os.Stat("config.local.yaml"); err == nil {
			configPath = "config.local.yaml"
			log.Printf("using local configuration file: config.local.yaml")
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	AppConfig = &cfg
	return nil
}

func overrideFromEnv(cfg *Config) {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		cfg.NATS.URL = url
	}

	if v := os.Getenv("ZEROX_API_KEY"); v != "" {
		cfg.Aggregators.ZeroXAPIKey = v
	}
	if v := os.Getenv("ONEINCH_API_KEY"); v != "" {
		cfg.Aggregators.OneInchAPIKey = v
	}
	if v := os.Getenv("SOCKET_API_KEY"); v != "" {
		cfg.Aggregators.SocketAPIKey = v
	}
	if v := os.Getenv("LIFI_API_KEY"); v != "" {
		cfg.Aggregators.LiFiAPIKey = v
	}

	if v := os.Getenv("ALCHEMY_API_KEY"); v != "" {
		cfg.RPC.AlchemyAPIKey = v
	}
	if v := os.Getenv("INFURA_API_KEY"); v != "" {
		cfg.RPC.InfuraAPIKey = v
	}

	if v := os.Getenv("KMS_BASE_URL"); v != "" {
		cfg.KMS.BaseURL = v
	}
	if v := os.Getenv("KMS_AUTH_TOKEN"); v != "" {
		cfg.KMS.AuthToken = v
	}
	if v := os.Getenv("KMS_KEY_ALIAS"); v != "" {
		cfg.KMS.KeyAlias = v
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = cfg.CORS.AllowedOrigins[:0]
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, trimmed)
			}
		}
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		cfg.Admin.JWTSecret = secret
	}
}
