package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

var storageDrivers = []string{"memory", "redis", "postgres", "sqlite"}

type session struct {
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

type catalog struct {
	File string `mapstructure:"file"`
}

type redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type storage struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
	Redis     redis  `mapstructure:"redis"`
	SQLDSN    string `mapstructure:"sql_dsn"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all three files are configured.
func (t tlsFiles) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type events struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topic              string   `mapstructure:"topic"`
	Partitions         int32    `mapstructure:"partitions"`
	ReplicationFactor  int16    `mapstructure:"replication_factor"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Currency       string        `mapstructure:"currency"`
	Session        session       `mapstructure:"session"`
	Catalog        catalog       `mapstructure:"catalog"`
	Storage        storage       `mapstructure:"storage"`
	Events         events        `mapstructure:"events"`
}

// Load reads the config file named by --config or STOREFRONT_CONFIG_FILE
// and exits the process on failure.
func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist), errors.As(err, &notFound):
			slog.Warn("config file not found, using defaults", "path", path)
		default:
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("request_timeout", "5s")
	v.SetDefault("currency", "INR")
	v.SetDefault("session.cookie_name", "sid")
	v.SetDefault("session.max_age", "720h")
	v.SetDefault("session.secure", false)
	v.SetDefault("catalog.file", "")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.key_prefix", "cart:")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.sql_dsn", "")
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.seed_brokers", []string{})
	v.SetDefault("events.schema_registry_urls", []string{})
	v.SetDefault("events.topic", "storefront.cart-events")
	v.SetDefault("events.partitions", 3)
	v.SetDefault("events.replication_factor", 3)
	v.SetDefault("events.tls.ca", "")
	v.SetDefault("events.tls.cert", "")
	v.SetDefault("events.tls.key", "")
}

func (c Config) validate() error {
	var errs []error

	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr: required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout: must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name: required"))
	}
	if !slices.Contains(storageDrivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf(
			"storage.driver: %q is not one of %v", c.Storage.Driver, storageDrivers,
		))
	}
	if (c.Storage.Driver == "postgres" || c.Storage.Driver == "sqlite") &&
		c.Storage.SQLDSN == "" {
		errs = append(errs, errors.New("storage.sql_dsn: required for SQL drivers"))
	}

	if c.Events.Enabled {
		if len(c.Events.SeedBrokers) == 0 {
			errs = append(errs, errors.New("events.seed_brokers: required"))
		}
		if len(c.Events.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("events.schema_registry_urls: required"))
		}
		if c.Events.Topic == "" {
			errs = append(errs, errors.New("events.topic: required"))
		}
	}
	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	LogFile=%q
	HTTPServerAddr=%q
	RequestTimeout=%q
	Currency=%q

	Session:
	CookieName=%q
	MaxAge=%q
	Secure=%t

	Catalog:
	File=%q

	Storage:
	Driver=%q
	KeyPrefix=%q
	RedisAddr=%q
	RedisDB=%d

	Events:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topic=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.LogFile,
		c.HTTPServerAddr,
		c.RequestTimeout,
		c.Currency,
		c.Session.CookieName,
		c.Session.MaxAge,
		c.Session.Secure,
		c.Catalog.File,
		c.Storage.Driver,
		c.Storage.KeyPrefix,
		c.Storage.Redis.Addr,
		c.Storage.Redis.DB,
		c.Events.Enabled,
		c.Events.SeedBrokers,
		c.Events.SchemaRegistryURLs,
		c.Events.Topic,
		c.Events.TLS.Enabled(),
	)
}
