package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Accounts   AccountsConfig   `yaml:"accounts"`
	Generation GenerationConfig `yaml:"generation"`
	Credits    CreditsConfig    `yaml:"credits"`
}

type HTTPConfig struct {
	Host    string        `yaml:"host" env:"HTTP_HOST"`
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"4m"`
}

// StorageConfig selects the durable key-value backend: memory, file, redis or postgres.
type StorageConfig struct {
	Driver    string            `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	KeyPrefix string            `yaml:"key_prefix" env:"STORAGE_KEY_PREFIX"`
	Quota     int64             `yaml:"quota" env-default:"5242880"`
	File      FileStorageConfig `yaml:"file"`
	Redis     RedisConf         `yaml:"redis"`
	Postgres  PostgresConfig    `yaml:"postgres"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./data"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type CatalogConfig struct {
	SeedPath           string  `yaml:"seed_path" env:"CATALOG_SEED_PATH"`
	UploadMaxDimension int     `yaml:"upload_max_dimension" env-default:"800"`
	UploadQuality      float64 `yaml:"upload_quality" env-default:"0.7"`
	UploadMaxBytes     int64   `yaml:"upload_max_bytes" env-default:"20971520"`
}

type AccountsConfig struct {
	Latency       time.Duration `yaml:"latency" env-default:"800ms"`
	GoogleLatency time.Duration `yaml:"google_latency" env-default:"1s"`
	SignupCredits int           `yaml:"signup_credits" env-default:"1"`
	GoogleCredits int           `yaml:"google_credits" env-default:"3"`
}

// GenerationConfig selects the image generator: gemini, remote or mock.
type GenerationConfig struct {
	Provider    string        `yaml:"provider" env:"GENERATION_PROVIDER" env-default:"mock"`
	Model       string        `yaml:"model" env-default:"gemini-2.5-flash-image"`
	APIKey      string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Endpoint    string        `yaml:"endpoint" env:"GENERATION_ENDPOINT"`
	Temperature float64       `yaml:"temperature"`
	CallTimeout time.Duration `yaml:"call_timeout" env-default:"2m"`
	MaxStyles   int           `yaml:"max_styles" env-default:"4"`
	MockDelay   time.Duration `yaml:"mock_delay" env-default:"1500ms"`
}

type CreditsConfig struct {
	Packs []int `yaml:"packs" env-default:"5,15,40"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// Load reads the YAML file and applies env overrides.
func Load(configPath string) (*Config, error) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "config file does not exist: " + e.Path
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
