package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Mongo            Mongo  `yaml:"mongo"`
	ThreadsPerPage   int    `yaml:"threads_per_page"` // threads returned by a board listing
	RepliesPreview   int    `yaml:"replies_preview"`  // replies embedded per thread in a listing
	BcryptCost       int    `yaml:"bcrypt_cost"`
	OpTimeoutSeconds int    `yaml:"op_timeout_seconds"` // per-request store deadline
	LogLevel         string `yaml:"log_level"`
	LogJSON          bool   `yaml:"log_json"`
	Https            bool   `yaml:"https"` // enables HSTS headers
}

func (p Public) OpTimeout() time.Duration {
	return time.Duration(p.OpTimeoutSeconds) * time.Second
}

type Mongo struct {
	Dbname            string `yaml:"dbname"`
	ThreadsCollection string `yaml:"threads_collection"`
	RepliesCollection string `yaml:"replies_collection"`
}

type Private struct {
	MongoURI string `yaml:"mongo_uri"`
}

func (c *Config) MongoURI() string {
	return c.private.MongoURI
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.mustValidate()
	return cfg
}

func (c *Config) mustValidate() {
	if c.Public.ThreadsPerPage <= 0 {
		c.Public.ThreadsPerPage = 10
	}
	if c.Public.RepliesPreview <= 0 {
		c.Public.RepliesPreview = 3
	}
	if c.Public.BcryptCost <= 0 {
		c.Public.BcryptCost = 12
	}
	if c.Public.OpTimeoutSeconds <= 0 {
		c.Public.OpTimeoutSeconds = 10
	}
	if c.private.MongoURI == "" {
		panic("mongo_uri is required in private.yaml")
	}
	if c.Public.Mongo.Dbname == "" || c.Public.Mongo.ThreadsCollection == "" || c.Public.Mongo.RepliesCollection == "" {
		panic("mongo dbname and collection names are required in public.yaml")
	}
}
