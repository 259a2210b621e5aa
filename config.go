package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"LIV_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"LIV_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"LIV_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"LIV_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"LIV_LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" envconfig:"LIV_LOG_FILE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"LIV_OPS_ENDPOINTS_ENABLE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"LIV_PROFILER_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Admin              AdminConfig   `yaml:"admin"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Minio              MinioConfig   `yaml:"minio"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"LIV_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"LIV_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"LIV_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"LIV_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"LIV_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"LIV_SERVER_SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"LIV_SERVER_MAX_UPLOAD_BYTES"`
}

// AdminConfig holds the single shared credentials pair
// which protects all mutating endpoints.
type AdminConfig struct {
	Username string `yaml:"username" envconfig:"LIV_ADMIN_USERNAME"`
	Password string `yaml:"password" envconfig:"LIV_ADMIN_PASSWORD" json:"-"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"LIV_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"LIV_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"LIV_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"LIV_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"LIV_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"LIV_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"LIV_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"LIV_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"LIV_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"LIV_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"LIV_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"LIV_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"LIV_BOLTDB_BUCKET_NAME"`
}

// MinioConfig holds the object storage service settings. PublicBaseURL
// is the address prefix under which uploaded assets are reachable.
type MinioConfig struct {
	Endpoint      string `yaml:"endpoint" envconfig:"LIV_MINIO_ENDPOINT"`
	AccessKey     string `yaml:"access_key" envconfig:"LIV_MINIO_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" envconfig:"LIV_MINIO_SECRET_KEY" json:"-"`
	Bucket        string `yaml:"bucket" envconfig:"LIV_MINIO_BUCKET"`
	UseSSL        bool   `yaml:"use_ssl" envconfig:"LIV_MINIO_USE_SSL"`
	PublicBaseURL string `yaml:"public_base_url" envconfig:"LIV_MINIO_PUBLIC_BASE_URL"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters and configures
// build tags values to be used if provided. The process must not start with
// an incomplete storage or admin credentials setup, so any missing required
// value surfaces as an error here.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.Minio.Endpoint) == 0 || len(config.Minio.Bucket) == 0 {
		return errors.New("make sure to set valid object storage endpoint and bucket in configuration file")
	}

	if len(config.Minio.AccessKey) == 0 || len(config.Minio.SecretKey) == 0 {
		return errors.New("make sure to set valid object storage credentials in configuration file")
	}

	if len(config.Admin.Username) == 0 || len(config.Admin.Password) == 0 {
		return errors.New("make sure to set valid admin credentials in configuration file")
	}

	if len(config.Minio.PublicBaseURL) == 0 {
		scheme := "http"
		if config.Minio.UseSSL {
			scheme = "https"
		}
		config.Minio.PublicBaseURL = fmt.Sprintf("%s://%s", scheme, config.Minio.Endpoint)
	}

	if config.Server.MaxUploadBytes == 0 {
		config.Server.MaxUploadBytes = 50 << 20 // 50MB
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `LIV`.
	err = LoadConfigEnvs("LIV", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
