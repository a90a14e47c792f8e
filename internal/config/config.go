package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Database Database `koanf:"db"`
	Voice    Voice    `koanf:"voice"`
	Stats    Stats    `koanf:"stats"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Voice struct {
	Enabled         bool   `koanf:"enabled"`
	AnthropicAPIKey string `koanf:"anthropicapikey"`
	Model           string `koanf:"model"`
}

type Stats struct {
	// RecomputeCron schedules the nightly daily-stat recompute. Empty
	// disables the scheduler.
	RecomputeCron string `koanf:"recomputecron"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8181",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "cradlelog",
			Pass:   "",
			Name:   "cradlelog",
			Schema: "cradlelog",
		},
		Voice: Voice{
			Enabled: false,
			Model:   "claude-sonnet-4-20250514",
		},
		Stats: Stats{
			RecomputeCron: "5 0 * * *",
		},
	}, "koanf"), nil)
	if err != nil {
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

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CRADLELOG_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CRADLELOG_")), "_", ".")
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

	return app, nil
}
