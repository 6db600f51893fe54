package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/strrl/moviefinder/pkg/catalog"
	"github.com/strrl/moviefinder/pkg/logging"
	"github.com/strrl/moviefinder/pkg/store"
)

const (
	DriverMySQL  = "mysql"
	DriverDuckDB = "duckdb"

	BackendMongo  = "mongo"
	BackendDuckDB = "duckdb"
)

// Config is the runtime configuration of the CLI.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	UsageLog UsageLogConfig `mapstructure:"usage_log"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Log      logging.Config `mapstructure:"log"`
}

type CatalogConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=mysql duckdb"`
	DuckDBPath string `mapstructure:"duckdb_path"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type UsageLogConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=mongo duckdb"`
	DuckDBPath string `mapstructure:"duckdb_path"`
}

type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// envBindings maps each config key to the environment variables that may set it.
// The lowercase names are kept for older .env files.
var envBindings = map[string][]string{
	"catalog.driver":        {"CATALOG_DRIVER"},
	"catalog.duckdb_path":   {"CATALOG_DUCKDB_PATH"},
	"mysql.host":            {"MYSQL_HOST", "host"},
	"mysql.port":            {"MYSQL_PORT"},
	"mysql.user":            {"MYSQL_USER", "user"},
	"mysql.password":        {"MYSQL_PASSWORD", "password"},
	"mysql.database":        {"MYSQL_DATABASE", "database"},
	"usage_log.backend":     {"USAGE_LOG_BACKEND"},
	"usage_log.duckdb_path": {"USAGE_LOG_DUCKDB_PATH"},
	"mongo.uri":             {"MONGO_URI"},
	"mongo.database":        {"MONGO_DB"},
	"mongo.collection":      {"MONGO_COLLECTION"},
	"mongo.timeout":         {"MONGO_TIMEOUT"},
	"log.level":             {"LOG_LEVEL"},
	"log.format":            {"LOG_FORMAT"},
	"log.error_file":        {"LOG_ERROR_FILE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.driver", DriverMySQL)
	v.SetDefault("catalog.duckdb_path", "catalog.duckdb")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("usage_log.backend", BackendMongo)
	v.SetDefault("usage_log.duckdb_path", "usage_log.duckdb")
	v.SetDefault("mongo.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.error_file", "errors.log")
}

// Load reads configuration from an optional YAML file and the environment.
// An empty path looks for moviefinder.yaml in the working directory and ./config;
// a missing file is not an error, the environment alone is enough.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("moviefinder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the credentials each selected backend needs.
// Credentials never have defaults.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Errorf("invalid config value for %s (%s)", strings.ToLower(verrs[0].Namespace()), verrs[0].Tag())
		}
		return errors.Errorf("validate config: %w", err)
	}

	var missing []string
	switch c.Catalog.Driver {
	case DriverMySQL:
		missing = appendMissing(missing, "mysql.host", c.MySQL.Host)
		missing = appendMissing(missing, "mysql.user", c.MySQL.User)
		missing = appendMissing(missing, "mysql.database", c.MySQL.Database)
	case DriverDuckDB:
		missing = appendMissing(missing, "catalog.duckdb_path", c.Catalog.DuckDBPath)
	}
	switch c.UsageLog.Backend {
	case BackendMongo:
		missing = appendMissing(missing, "mongo.uri", c.Mongo.URI)
		missing = appendMissing(missing, "mongo.database", c.Mongo.Database)
		missing = appendMissing(missing, "mongo.collection", c.Mongo.Collection)
	case BackendDuckDB:
		missing = appendMissing(missing, "usage_log.duckdb_path", c.UsageLog.DuckDBPath)
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func appendMissing(missing []string, key, value string) []string {
	if strings.TrimSpace(value) == "" {
		return append(missing, key)
	}
	return missing
}

// CatalogConfig returns the driver and DSN for the film catalog.
func (c *Config) CatalogConfig() catalog.Config {
	if c.Catalog.Driver == DriverDuckDB {
		return catalog.Config{Driver: catalog.DialectDuckDB, DSN: c.Catalog.DuckDBPath}
	}

	mc := mysql.NewConfig()
	mc.User = c.MySQL.User
	mc.Passwd = c.MySQL.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.MySQL.Host, strconv.Itoa(c.MySQL.Port))
	mc.DBName = c.MySQL.Database
	mc.ParseTime = true
	return catalog.Config{Driver: catalog.DialectMySQL, DSN: mc.FormatDSN()}
}

// UsageStore returns the configured usage-log backend.
func (c *Config) UsageStore() store.Store {
	if c.UsageLog.Backend == BackendDuckDB {
		return store.NewDuckDBStore(c.UsageLog.DuckDBPath)
	}
	return store.NewMongoStore(store.MongoConfig{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
		Timeout:    c.Mongo.Timeout,
	})
}
