// Package config loads backend settings from defaults, an optional config
// file, an optional .env file, FOTOS_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultMaxUploadBytes is the 5 MiB upload ceiling.
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

// EnvPrefix is prepended to every environment variable, e.g. FOTOS_SERVER_PORT.
const EnvPrefix = "FOTOS"

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Static  StaticConfig
	Log     LogConfig
	Env     string
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	Dir            string
	URLPrefix      string
	MaxUploadBytes int64
}

type StaticConfig struct {
	Root string
}

type LogConfig struct {
	Level  string
	Format string
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SetDefaults registers every key with its default so that AutomaticEnv and
// Unmarshal-free lookups see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("storage.dir", "fotos")
	v.SetDefault("storage.url_prefix", "fotos")
	v.SetDefault("storage.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("static.root", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("env", "development")
}

// Load resolves the configuration from v. When configFile is empty an
// optional fotos.{yaml,json,toml} in the working directory is used.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("fotos")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	env := strings.ToLower(v.GetString("env"))
	format := strings.ToLower(v.GetString("log.format"))
	if format == "" {
		format = defaultLogFormat(env)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Storage: StorageConfig{
			Dir:            v.GetString("storage.dir"),
			URLPrefix:      strings.Trim(v.GetString("storage.url_prefix"), "/"),
			MaxUploadBytes: v.GetInt64("storage.max_upload_bytes"),
		},
		Static: StaticConfig{
			Root: v.GetString("static.root"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: format,
		},
		Env: env,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultLogFormat picks JSON logs for production and console logs elsewhere.
func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "text"
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
