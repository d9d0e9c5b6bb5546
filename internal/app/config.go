package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"landreg/internal/domain"
	"landreg/internal/logging"
)

// DefaultConfigFile is looked up under Home when no config path is given.
const DefaultConfigFile = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string       `yaml:"-"` // keystore directory, e.g. $HOME/.landreg
	HTTP *http.Client `yaml:"-"` // optional; defaults to a client with Timeout

	// Passphrase unlocks the wallet keystore. Never read from the file.
	Passphrase string `yaml:"-"`

	NodeURL       string         `yaml:"node_url"`
	ModuleAddress domain.Address `yaml:"module_address"`
	ModuleName    string         `yaml:"module_name"`
	Timeout       time.Duration  `yaml:"timeout"`
	ReadAttempts  uint           `yaml:"read_attempts"`
	RateLimit     RateLimit      `yaml:"rate_limit"`
	Gas           Gas            `yaml:"gas"`
	Log           Log            `yaml:"log"`
	MetricsFile   string         `yaml:"metrics_file"`
}

// RateLimit paces outbound node requests.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Gas controls the transactions the local wallet builds.
type Gas struct {
	MaxAmount  uint64        `yaml:"max_amount"`
	UnitPrice  uint64        `yaml:"unit_price"`
	Expiration time.Duration `yaml:"expiration"`
}

// Log selects the logger level and encoding.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used before any file, environment
// or flag is applied.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Home:         filepath.Join(home, ".landreg"),
		NodeURL:      "https://fullnode.testnet.aptoslabs.com/v1",
		ModuleName:   "land_registry",
		Timeout:      15 * time.Second,
		ReadAttempts: 3,
		RateLimit:    RateLimit{RPS: 10, Burst: 5},
		Gas:          Gas{MaxAmount: 2000, UnitPrice: 100, Expiration: 30 * time.Second},
		Log:          Log{Level: "warn", Format: "console"},
	}
}

// LoadConfig layers the YAML file at path over cfg, then applies LANDREG_*
// environment overrides. An empty path means <Home>/config.yaml, which may
// be absent; an explicit path must exist.
func LoadConfig(cfg Config, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Home, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overwrites cfg with any LANDREG_* variables that are set.
func ApplyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	str("LANDREG_HOME", &cfg.Home)
	str("LANDREG_NODE_URL", &cfg.NodeURL)
	str("LANDREG_MODULE_NAME", &cfg.ModuleName)
	str("LANDREG_LOG_LEVEL", &cfg.Log.Level)
	str("LANDREG_LOG_FORMAT", &cfg.Log.Format)
	str("LANDREG_METRICS_FILE", &cfg.MetricsFile)
	if v := strings.TrimSpace(os.Getenv("LANDREG_MODULE_ADDRESS")); v != "" {
		cfg.ModuleAddress = domain.Address(v)
	}
	if v, ok := os.LookupEnv("LANDREG_PASSPHRASE"); ok && v != "" {
		cfg.Passphrase = v
	}
	if v := strings.TrimSpace(os.Getenv("LANDREG_TIMEOUT")); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("LANDREG_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Module returns the registry module the config points at.
func (c Config) Module() domain.ModuleRef {
	return domain.ModuleRef{Address: c.ModuleAddress.Normalize(), Name: c.ModuleName}
}

// Validate reports the first setting that cannot produce a working client.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory is empty")
	}
	u, err := url.Parse(c.NodeURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("node url %q is not an absolute URL", c.NodeURL)
	}
	if c.ModuleAddress == "" {
		return errors.New("module address is empty (set module_address, LANDREG_MODULE_ADDRESS or --module-address)")
	}
	if c.ModuleName == "" {
		return errors.New("module name is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative, got %v", c.RateLimit.RPS)
	}
	if c.ReadAttempts == 0 {
		return errors.New("read_attempts must be at least 1")
	}
	switch c.Log.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log format %q is not console or json", c.Log.Format)
	}
	return nil
}
