package config

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
	FilesystemR2    = "r2"
)

type S3Config struct {
	Bucket          string        `mapstructure:"bucket"            yaml:"bucket"`
	Prefix          string        `mapstructure:"prefix"            yaml:"prefix"`
	Region          string        `mapstructure:"region"            yaml:"region"`
	Endpoint        string        `mapstructure:"endpoint"          yaml:"endpoint"`
	AccountID       string        `mapstructure:"account_id"        yaml:"account_id"`
	AccessKeyID     string        `mapstructure:"access_key_id"     yaml:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	PathStyle       bool          `mapstructure:"path_style"        yaml:"path_style"`
	PresignExpires  time.Duration `mapstructure:"presign_expires"   yaml:"presign_expires"`
}

type FilesystemConfig struct {
	Name      string `mapstructure:"name"       yaml:"name"`
	Type      string `mapstructure:"type"       yaml:"type"`
	Root      string `mapstructure:"root"       yaml:"root"`
	PublicURL string `mapstructure:"public_url" yaml:"public_url"`
	// Options are adapter-level defaults; per-request options win.
	Options map[string]string `mapstructure:"options" yaml:"options"`
	S3      S3Config          `mapstructure:"s3"      yaml:"s3"`
}

type TargetConfig struct {
	Entity       string   `mapstructure:"entity"        yaml:"entity"`
	Aliases      []string `mapstructure:"aliases"       yaml:"aliases"`
	Property     string   `mapstructure:"property"      yaml:"property"`
	PathProperty string   `mapstructure:"path_property" yaml:"path_property"`
	Filesystem   string   `mapstructure:"filesystem"    yaml:"filesystem"`
	Prefix       string   `mapstructure:"prefix"        yaml:"prefix"`
}

// DefaultLocalMount is where local uploads are received when no mount is configured.
const DefaultLocalMount = "/upload/local"

type LocalUploadConfig struct {
	Mount   string        `mapstructure:"mount"    yaml:"mount"`
	Expires time.Duration `mapstructure:"expires"  yaml:"expires"`
	MaxSize int64         `mapstructure:"max_size" yaml:"max_size"`
}

// MountPath returns the mount with a single leading slash and no trailing one.
// An empty mount falls back to DefaultLocalMount.
func (c LocalUploadConfig) MountPath() string {
	m := strings.Trim(c.Mount, "/")
	if m == "" {
		return DefaultLocalMount
	}
	return "/" + m
}

type SignerConfig struct {
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"    yaml:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
}

type LogConfig struct {
	Level      string         `mapstructure:"level"       yaml:"level"`
	JSON       bool           `mapstructure:"json"        yaml:"json"`
	File       string         `mapstructure:"file"        yaml:"file"`
	NoTerminal bool           `mapstructure:"no_terminal" yaml:"no_terminal"`
	Rotation   RotationConfig `mapstructure:"rotation"    yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool `mapstructure:"compress"    yaml:"compress"`
}

type Config struct {
	Port            string        `mapstructure:"port"             yaml:"port"`
	Environment     string        `mapstructure:"environment"      yaml:"environment"`
	PublicBaseURL   string        `mapstructure:"public_base_url"  yaml:"public_base_url"`
	Secret          string        `mapstructure:"secret"           yaml:"secret"`
	DatabaseURL     string        `mapstructure:"database_url"     yaml:"database_url"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"  yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Signer      SignerConfig       `mapstructure:"signer"       yaml:"signer"`
	LocalUpload LocalUploadConfig  `mapstructure:"local_upload" yaml:"local_upload"`
	Auth        AuthConfig         `mapstructure:"auth"         yaml:"auth"`
	Log         LogConfig          `mapstructure:"log"          yaml:"log"`
	Filesystems []FilesystemConfig `mapstructure:"filesystems"  yaml:"filesystems"`
	Targets     []TargetConfig     `mapstructure:"targets"      yaml:"targets"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		Environment:     "development",
		PublicBaseURL:   "http://localhost:8080",
		AllowedOrigins:  []string{"http://localhost:5173"},
		ShutdownTimeout: 10 * time.Second,
		Signer:          SignerConfig{Algorithm: "sha256"},
		LocalUpload: LocalUploadConfig{
			Mount:   DefaultLocalMount,
			Expires: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
			Rotation: RotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			},
		},
		Filesystems: []FilesystemConfig{
			{Name: "public", Type: FilesystemLocal, Root: "var/public", PublicURL: "http://localhost:8080/files/public"},
		},
		Targets: []TargetConfig{
			{Entity: "Document", Property: "attachment", PathProperty: "attachment_path", Filesystem: "public", Prefix: "documents"},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("public_base_url", d.PublicBaseURL)
	v.SetDefault("secret", d.Secret)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("signer.algorithm", d.Signer.Algorithm)
	v.SetDefault("local_upload.mount", d.LocalUpload.Mount)
	v.SetDefault("local_upload.expires", d.LocalUpload.Expires)
	v.SetDefault("local_upload.max_size", d.LocalUpload.MaxSize)
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.no_terminal", d.Log.NoTerminal)
	v.SetDefault("log.rotation.max_size", d.Log.Rotation.MaxSize)
	v.SetDefault("log.rotation.max_backups", d.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age", d.Log.Rotation.MaxAge)
	v.SetDefault("log.rotation.compress", d.Log.Rotation.Compress)
	v.SetDefault("filesystems", d.Filesystems)
	v.SetDefault("targets", d.Targets)
}

// env names kept from the original deployment
var envBindings = map[string]string{
	"port":            "PORT",
	"environment":     "ENV",
	"database_url":    "DB_URL",
	"auth.jwt_secret": "JWT_SECRET",
	"secret":          "UPLOAD_SECRET",
	"public_base_url": "PUBLIC_BASE_URL",
	"log.level":       "LOG_LEVEL",
}

// Load reads .env (or ENV_FILE), the optional YAML file at path and the
// environment, in increasing order of precedence.
func Load(v *viper.Viper, path string) (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross references between filesystems and targets.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("secret is required (UPLOAD_SECRET)")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}

	seen := make(map[string]bool, len(c.Filesystems))
	for _, fs := range c.Filesystems {
		if fs.Name == "" {
			return fmt.Errorf("filesystem without name")
		}
		if seen[fs.Name] {
			return fmt.Errorf("duplicate filesystem %q", fs.Name)
		}
		seen[fs.Name] = true

		switch strings.ToLower(fs.Type) {
		case FilesystemLocal:
			if fs.Root == "" {
				return fmt.Errorf("filesystem %q: root is required", fs.Name)
			}
		case FilesystemS3, FilesystemR2:
			if fs.S3.Bucket == "" {
				return fmt.Errorf("filesystem %q: s3.bucket is required", fs.Name)
			}
		default:
			return fmt.Errorf("filesystem %q: unknown type %q", fs.Name, fs.Type)
		}
	}

	for _, t := range c.Targets {
		if !seen[t.Filesystem] {
			return fmt.Errorf("target %s.%s: unknown filesystem %q", t.Entity, t.Property, t.Filesystem)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
	}
}

const redacted = "********"

// Redacted returns a copy safe to print, with credentials masked.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}
	c.Secret = mask(c.Secret)
	c.Auth.JWTSecret = mask(c.Auth.JWTSecret)
	c.DatabaseURL = mask(c.DatabaseURL)

	fss := make([]FilesystemConfig, len(c.Filesystems))
	copy(fss, c.Filesystems)
	for i := range fss {
		fss[i].S3.AccessKeyID = mask(fss[i].S3.AccessKeyID)
		fss[i].S3.SecretAccessKey = mask(fss[i].S3.SecretAccessKey)
	}
	c.Filesystems = fss
	return c
}
