package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes the environment variables read by Load. Nested keys use a double
// underscore: ROUTEKIT_SERVER__PORT sets server.port.
const EnvPrefix = "ROUTEKIT_"

// Config represents the top-level application config.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Routes  RoutesConfig  `koanf:"routes"`
	Schemas SchemasConfig `koanf:"schemas"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Port    int    `koanf:"port"`
	Host    string `koanf:"host"`
	Mode    string `koanf:"mode"` // debug | release
	Name    string `koanf:"name"`
	Version string `koanf:"version"`

	// UpgradeInsecureRequests redirects plain-HTTP requests to https when set.
	UpgradeInsecureRequests bool `koanf:"upgrade_insecure_requests"`
}

type RoutesConfig struct {
	Dir        string   `koanf:"dir"`
	Extensions []string `koanf:"extensions"`
}

type SchemasConfig struct {
	Dir string `koanf:"dir"`
}

type APIConfig struct {
	Documentation            bool   `koanf:"documentation"`
	RoutesDocumentationPath  string `koanf:"routes_documentation_path"`
	SchemasDocumentationPath string `koanf:"schemas_documentation_path"`
	VersionIndex             bool   `koanf:"version_index"`
}

type LoggingConfig struct {
	Level   string `koanf:"level"`  // debug | info | warn | error
	Format  string `koanf:"format"` // text | json
	Request bool   `koanf:"request"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel maps the configured level onto slog.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if strings.TrimSpace(c.Server.Name) == "" {
		return fmt.Errorf("server.name is required")
	}

	if strings.TrimSpace(c.Routes.Dir) == "" {
		return fmt.Errorf("routes.dir is required")
	}
	for _, ext := range c.Routes.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid routes.extensions entry %q (must start with a dot)", ext)
		}
	}
	if strings.TrimSpace(c.Schemas.Dir) == "" {
		return fmt.Errorf("schemas.dir is required")
	}

	if c.API.Documentation {
		if !strings.HasPrefix(c.API.RoutesDocumentationPath, "/") {
			return fmt.Errorf("invalid api.routes_documentation_path %q (must start with /)", c.API.RoutesDocumentationPath)
		}
		if !strings.HasPrefix(c.API.SchemasDocumentationPath, "/") {
			return fmt.Errorf("invalid api.schemas_documentation_path %q (must start with /)", c.API.SchemasDocumentationPath)
		}
		if c.API.RoutesDocumentationPath == c.API.SchemasDocumentationPath {
			return fmt.Errorf("api.routes_documentation_path and api.schemas_documentation_path must differ")
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (must be debug, info, warn or error)", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	return nil
}

// Load parses config from defaults, file and env, applies overrides (command-line
// flags) last, then validates it. PORT is honored when ROUTEKIT_SERVER__PORT is unset.
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                      8000,
		"server.host":                      "0.0.0.0",
		"server.mode":                      "release",
		"server.name":                      "routekit",
		"server.version":                   "0.1.0",
		"server.upgrade_insecure_requests": false,
		"routes.dir":                       "./routes",
		"routes.extensions":                []string{".yaml", ".yml"},
		"schemas.dir":                      "./schemas",
		"api.documentation":                true,
		"api.routes_documentation_path":    "/api/routes",
		"api.schemas_documentation_path":   "/api/schemas",
		"api.version_index":                true,
		"logging.level":                    "info",
		"logging.format":                   "text",
		"logging.request":                  true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		k.Set("server.port", port)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	for key, value := range overrides {
		k.Set(key, value)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
