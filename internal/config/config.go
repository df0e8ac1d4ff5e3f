package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type StorageType string

const (
	StoragePostgres StorageType = "postgres"
	StorageSqlite   StorageType = "sqlite"
	StorageMemory   StorageType = "memory"
)

type Application struct {
	Listen   string      `koanf:"listen"`
	Log      Log         `koanf:"log"`
	Storage  StorageType `koanf:"storage"`
	Frontend Frontend    `koanf:"frontend"`
	Database Database    `koanf:"db"`
	Sqlite   Sqlite      `koanf:"sqlite"`
}

type Log struct {
	Level string `koanf:"level"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Sqlite struct {
	Path string `koanf:"path"`
}

func defaults() Application {
	return Application{
		Listen:  ":8181",
		Log:     Log{Level: "info"},
		Storage: StorageSqlite,
		Frontend: Frontend{
			Enabled: false,
			Dir:     "frontend",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "eventcal",
			Pass:   "",
			Name:   "eventcal",
			Schema: "eventcal",
		},
		Sqlite: Sqlite{Path: "eventcal.db"},
	}
}

// Load layers struct defaults, the YAML file at path and EVENTCAL_ environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "EVENTCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EVENTCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	switch app.Storage {
	case StoragePostgres, StorageSqlite, StorageMemory:
	default:
		return Application{}, fmt.Errorf("unsupported storage %q", app.Storage)
	}

	return app, nil
}
