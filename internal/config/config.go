package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultGistId   = "17d8f1120822dd11c2c519883d0ce963"
	DefaultFilename = "dados_viagem.json"
	DefaultApiUrl   = "https://api.github.com"
)

type Application struct {
	Addr    string  `koanf:"addr"`
	Gist    Gist    `koanf:"gist"`
	Session Session `koanf:"session"`
}

// Gist points at the single file holding the expense records.
type Gist struct {
	Id       string        `koanf:"id"`
	Filename string        `koanf:"filename"`
	ApiUrl   string        `koanf:"apiurl"`
	Timeout  time.Duration `koanf:"timeout"`
}

type Session struct {
	CookieName   string        `koanf:"cookiename"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
	SecureCookie bool          `koanf:"securecookie"`
}

func Defaults() Application {
	return Application{
		Addr: ":8181",
		Gist: Gist{
			Id:       DefaultGistId,
			Filename: DefaultFilename,
			ApiUrl:   DefaultApiUrl,
			Timeout:  15 * time.Second,
		},
		Session: Session{
			CookieName:  "tripspend_session",
			IdleTimeout: 12 * time.Hour,
		},
	}
}

// Load reads defaults, then the YAML file at path, then TRIPSPEND_ environment variables.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Errorf("error loading .env file: %v", err)
		return Application{}, err
	}

	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
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
		Prefix: "TRIPSPEND_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "TRIPSPEND_")), "_", ".")
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
