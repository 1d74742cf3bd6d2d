package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mathisescriva/crmdesk/internal/directory"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig           `yaml:"server"`
	Remote    RemoteConfig           `yaml:"remote"`
	Local     LocalConfig            `yaml:"local"`
	Views     ViewsConfig            `yaml:"views"`
	Log       LogConfig              `yaml:"log"`
	Roster    []directory.TeamMember `yaml:"roster"`
	Companies []CompanyConfig        `yaml:"companies"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RemoteConfig points at the hosted relational API. An empty base URL skips
// the probe and pins the session to the local store.
type RemoteConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Bearer       string        `yaml:"bearer"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type LocalConfig struct {
	Path string `yaml:"path"`
}

// ViewsConfig tunes the aggregation thresholds.
type ViewsConfig struct {
	StaleAfter     time.Duration `yaml:"stale_after"`
	ActivityWindow time.Duration `yaml:"activity_window"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// CompanyConfig seeds the local company directory for sessions without a
// remote store.
type CompanyConfig struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	EntityType  string     `yaml:"entity_type"`
	LastContact *time.Time `yaml:"last_contact"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in that order.
func Load() (Config, error) {
	// Missing .env is fine; it only exists on developer machines.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Remote: RemoteConfig{
			ProbeTimeout: 3 * time.Second,
		},
		Local: LocalConfig{
			Path: "crmdesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CRMDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CRMDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CRMDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if baseURL := os.Getenv("CRMDESK_REMOTE_URL"); baseURL != "" {
		cfg.Remote.BaseURL = baseURL
	}
	if apiKey := os.Getenv("CRMDESK_REMOTE_API_KEY"); apiKey != "" {
		cfg.Remote.APIKey = apiKey
	}
	if bearer := os.Getenv("CRMDESK_REMOTE_BEARER"); bearer != "" {
		cfg.Remote.Bearer = bearer
	}
	if timeoutStr := os.Getenv("CRMDESK_PROBE_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMDESK_PROBE_TIMEOUT: %w", err)
		}
		cfg.Remote.ProbeTimeout = timeout
	}
	if dbPath := os.Getenv("CRMDESK_DB_PATH"); dbPath != "" {
		cfg.Local.Path = dbPath
	}
	if level := os.Getenv("CRMDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// LocalCompanies converts the seeded company list for the directory.
func (c Config) LocalCompanies() []directory.Company {
	companies := make([]directory.Company, 0, len(c.Companies))
	for _, cc := range c.Companies {
		companies = append(companies, directory.Company{
			ID:          cc.ID,
			Name:        cc.Name,
			EntityType:  directory.EntityType(cc.EntityType),
			LastContact: cc.LastContact,
		})
	}
	return companies
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
