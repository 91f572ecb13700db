// Package config loads mangashelf settings: built-in defaults, then an
// optional YAML or TOML file, then MANGASHELF_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "MANGASHELF_CONFIG"

// DefaultFile is read when no path is given and it exists.
const DefaultFile = "mangashelf.yaml"

// Paths locates the files a run reads and writes.
type Paths struct {
	Library    string `yaml:"library" toml:"library"`
	Reference  string `yaml:"reference" toml:"reference"`
	Export     string `yaml:"export" toml:"export"`
	Report     string `yaml:"report" toml:"report"`
	ArchiveDir string `yaml:"archive_dir" toml:"archive_dir"`
}

// Compare tunes the matcher.
type Compare struct {
	ExclusiveReferences bool `yaml:"exclusive_references" toml:"exclusive_references"`
	LogCollisions       bool `yaml:"log_collisions" toml:"log_collisions"`
}

// Database configures the run history store.
type Database struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Server configures the API server.
type Server struct {
	HTTPAddr     string  `yaml:"http_addr" toml:"http_addr"`
	GRPCAddr     string  `yaml:"grpc_addr" toml:"grpc_addr"`
	RateLimit    float64 `yaml:"rate_limit" toml:"rate_limit"` // requests per second, 0 disables
	RateBurst    int     `yaml:"rate_burst" toml:"rate_burst"`
	MaxBodyBytes int64   `yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Auth configures API tokens and the admin login.
type Auth struct {
	JWTSecret         string `yaml:"jwt_secret" toml:"jwt_secret"`
	JWTIssuer         string `yaml:"jwt_issuer" toml:"jwt_issuer"`
	TokenTTLHours     int    `yaml:"token_ttl_hours" toml:"token_ttl_hours"`
	AdminUser         string `yaml:"admin_user" toml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash" toml:"admin_password_hash"` // bcrypt
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Config is the root of the configuration tree.
type Config struct {
	Paths    Paths    `yaml:"paths" toml:"paths"`
	Compare  Compare  `yaml:"compare" toml:"compare"`
	Database Database `yaml:"database" toml:"database"`
	Server   Server   `yaml:"server" toml:"server"`
	Auth     Auth     `yaml:"auth" toml:"auth"`
	Log      Log      `yaml:"log" toml:"log"`
}

// Default returns the built-in settings. The file names are the ones an
// existing working directory already uses.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		Paths: Paths{
			Library:    "my_library.txt",
			Reference:  "The Mangadex Massacre - Sheet1.csv",
			Export:     "mangas.json",
			Report:     "matching_titles.txt",
			ArchiveDir: "archives",
		},
		Compare: Compare{LogCollisions: true},
		Database: Database{
			Enabled: true,
			Path:    filepath.Join(home, ".mangashelf", "history.db"),
		},
		Server: Server{
			HTTPAddr:     ":8080",
			GRPCAddr:     ":9090",
			RateLimit:    5,
			RateBurst:    10,
			MaxBodyBytes: 8 << 20,
		},
		Auth: Auth{
			// dev default, override in any shared deployment
			JWTSecret:     "dev-secret-change-me",
			JWTIssuer:     "mangashelf",
			TokenTTLHours: 24,
			AdminUser:     "admin",
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case
// MANGASHELF_CONFIG and then DefaultFile are tried; a missing file is only an
// error when it was asked for explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	if err := loadFile(&cfg, path); err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MANGASHELF_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("MANGASHELF_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MANGASHELF_JWT_ISSUER"); v != "" {
		cfg.Auth.JWTIssuer = v
	}
	if v := os.Getenv("MANGASHELF_JWT_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MANGASHELF_JWT_TTL_HOURS: %w", err)
		}
		cfg.Auth.TokenTTLHours = hours
	}
	if v := os.Getenv("MANGASHELF_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Auth.AdminPasswordHash = v
	}
	if v := os.Getenv("MANGASHELF_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Paths.Library) == "":
		return errors.New("paths.library must be set")
	case strings.TrimSpace(c.Paths.Reference) == "":
		return errors.New("paths.reference must be set")
	case c.Database.Enabled && strings.TrimSpace(c.Database.Path) == "":
		return errors.New("database.path must be set when the database is enabled")
	case c.Auth.TokenTTLHours <= 0:
		return fmt.Errorf("auth.token_ttl_hours must be > 0, got %d", c.Auth.TokenTTLHours)
	case c.Server.RateLimit < 0:
		return fmt.Errorf("server.rate_limit must be >= 0, got %v", c.Server.RateLimit)
	}
	return nil
}
