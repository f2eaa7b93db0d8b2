// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек клиента
type Config struct {
	Env       string `yaml:"env"`
	AuthAPI   `yaml:"auth_api"`
	Analytics `yaml:"analytics"`
	Storage   `yaml:"storage"`
}

// AuthAPI структура для настройки клиента аутентификации.
// BaseURL после загрузки всегда оканчивается на "/".
type AuthAPI struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// Analytics структура для настройки аналитики
type Analytics struct {
	AnalyticsEndpoint string `yaml:"endpoint"`
	AnalyticsWriteKey string `yaml:"write_key"`
}

// Storage структура для настройки пула соединений с базой данных
type Storage struct {
	ConnectionString string        `yaml:"connection_string"`
	MaxConns         int32         `yaml:"max_conns" env-default:"4"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout" env-default:"5s"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.BaseURL == "" {
		log.Fatal("auth_api.base_url is not set")
	}
	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	return &cfg
}

// NormalizeBaseURL приводит базовый URL API к виду с завершающим "/",
// чтобы конкатенация с относительными путями не зависела от того,
// как URL записан в окружении развёртывания.
func NormalizeBaseURL(raw string) string {
	if strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"AuthAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Analytics:\n"+
			"  Endpoint: %s\n"+
			"Storage:\n"+
			"  ConnectionString: %s\n"+
			"  MaxConns: %d\n"+
			"  ConnectTimeout: %s\n",
		c.Env,
		c.BaseURL,
		c.Timeout,
		c.AnalyticsEndpoint,
		c.ConnectionString,
		c.MaxConns,
		c.ConnectTimeout,
	)
}
