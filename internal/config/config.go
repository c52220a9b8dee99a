package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/quadro/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// Backend names one task repository implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Board    BoardConfig    `toml:"board"`
	Logging  LoggingConfig  `toml:"logging"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
}

type DatabaseConfig struct {
	Path    string  `toml:"path"`
	Backend Backend `toml:"backend"`
}

type BoardConfig struct {
	SeedFixtures bool   `toml:"seed_fixtures"`
	Locale       string `toml:"locale"` // en | pt-BR
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type UIConfig struct {
	ShowDescription bool `toml:"show_description"`
	ShowAssignee    bool `toml:"show_assignee"`
	ShowDueDate     bool `toml:"show_due_date"`
	ShowSubtasks    bool `toml:"show_subtasks"`
	ConfirmQuit     bool `toml:"confirm_quit"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path:    dbPath,
			Backend: BackendSQLite,
		},
		Board: BoardConfig{
			SeedFixtures: true,
			Locale:       string(domain.LocaleEnglish),
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: false,
				Dir:     ".quadro/log",
			},
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		UI: UIConfig{
			ShowDescription: false,
			ShowAssignee:    true,
			ShowDueDate:     true,
			ShowSubtasks:    true,
			ConfirmQuit:     false,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid database.backend: %q", c.Database.Backend)
	}

	if _, ok := domain.ParseLocale(c.Board.Locale); !ok {
		return fmt.Errorf("invalid board.locale: %q", c.Board.Locale)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when the dev file is enabled")
	}

	if strings.TrimSpace(c.Server.HTTPBind) == "" {
		return errors.New("server.http_bind is required")
	}
	api := strings.Trim(strings.TrimSpace(c.Server.APIEndpoint), "/")
	mcp := strings.Trim(strings.TrimSpace(c.Server.MCPEndpoint), "/")
	if api != "" && api == mcp {
		return fmt.Errorf("server.api_endpoint and server.mcp_endpoint must differ: %q", c.Server.APIEndpoint)
	}

	return nil
}

// BoardLocale returns the configured label locale, falling back to English.
func (c Config) BoardLocale() domain.Locale {
	locale, ok := domain.ParseLocale(c.Board.Locale)
	if !ok {
		return domain.LocaleEnglish
	}
	return locale
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
