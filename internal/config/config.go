package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"

	"github.com/agentx-labs/agent-skills/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyCDNRef                 = "cdn_ref"
	KeyCacheDir               = "cache_dir"
	KeyCacheTTL               = "cache_ttl"
	KeyFetchTimeout           = "fetch_timeout"
	KeyMaxRetries             = "max_retries"
	KeyRetryBaseDelay         = "retry_base_delay"
	KeyMaxConcurrentDownloads = "max_concurrent_downloads"
	KeyDebug                  = "debug"
)

var defaults = map[string]any{
	KeyCDNRef:                 "",
	KeyCacheDir:               "",
	KeyCacheTTL:               "24h",
	KeyFetchTimeout:           "15s",
	KeyMaxRetries:             3,
	KeyRetryBaseDelay:         "500ms",
	KeyMaxConcurrentDownloads: 10,
	KeyDebug:                  false,
}

// Settings is the resolved configuration.
type Settings struct {
	CDNRef                 string
	CacheDir               string
	CacheTTL               time.Duration
	FetchTimeout           time.Duration
	MaxRetries             int
	RetryBaseDelay         time.Duration
	MaxConcurrentDownloads int
	Debug                  bool
}

// Keys returns every known setting key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is a known setting.
func IsKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Dir returns the path to the config directory (~/.agent-skills/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	LoadFile(FilePath())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(path)
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	_ = viper.BindEnv(KeyCDNRef, branding.EnvVar("CDN_REF"), "SKILLS_CDN_REF")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings Viper resolved.
func Current() Settings {
	return Settings{
		CDNRef:                 viper.GetString(KeyCDNRef),
		CacheDir:               viper.GetString(KeyCacheDir),
		CacheTTL:               viper.GetDuration(KeyCacheTTL),
		FetchTimeout:           viper.GetDuration(KeyFetchTimeout),
		MaxRetries:             viper.GetInt(KeyMaxRetries),
		RetryBaseDelay:         viper.GetDuration(KeyRetryBaseDelay),
		MaxConcurrentDownloads: viper.GetInt(KeyMaxConcurrentDownloads),
		Debug:                  viper.GetBool(KeyDebug),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = FilePath()
	}

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
