// Package config resolves settings from an optional config.yml, a .env file
// and WARZISH_ environment variables, in the viper manner.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "WARZISH"

type Log struct {
	Level        string `json:"level"`
	Format       string `json:"format"`
	LogstashAddr string `json:"logstash_addr,omitempty"`
	ElasticURL   string `json:"elastic_url,omitempty"`
	ElasticIndex string `json:"elastic_index,omitempty"`
}

type Config struct {
	DBPath     string `json:"db_path"`
	Timezone   string `json:"timezone"`
	APIAddr    string `json:"api_addr"`
	WeightUnit string `json:"weight_unit"`
	Log        Log    `json:"log"`
	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `json:"config_file,omitempty"`
}

// Load reads settings. explicitFile, when set, must exist; otherwise
// config.yml is looked up in the working directory and userDir.
func Load(explicitFile, userDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("db.path", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("api.addr", "127.0.0.1:8080")
	v.SetDefault("units.weight", "kg")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.logstash.addr", "")
	v.SetDefault("log.elastic.url", "")
	v.SetDefault("log.elastic.index", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if userDir != "" {
			v.AddConfigPath(userDir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logrus.Debug("no config.yml found, using defaults and environment")
	}

	cfg := &Config{
		DBPath:     v.GetString("db.path"),
		Timezone:   v.GetString("timezone"),
		APIAddr:    v.GetString("api.addr"),
		WeightUnit: v.GetString("units.weight"),
		Log: Log{
			Level:        v.GetString("log.level"),
			Format:       v.GetString("log.format"),
			LogstashAddr: v.GetString("log.logstash.addr"),
			ElasticURL:   v.GetString("log.elastic.url"),
			ElasticIndex: v.GetString("log.elastic.index"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.WeightUnit) {
	case "kg", "lb":
	default:
		return nil, fmt.Errorf("invalid units.weight %q (use kg or lb)", cfg.WeightUnit)
	}
	return cfg, nil
}

// Location resolves Timezone; "Local" and empty mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
