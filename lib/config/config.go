package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables read by this module.
const EnvPrefix = "kvmirror"

// Configuration keys. Each maps to the environment variable
// KVMIRROR_<KEY with "-" replaced by "_" and upper-cased>.
const (
	KeyLocalStorageDir = "local-storage-dir"
	KeyToken           = "token"
	KeyDefaultStoreID  = "default-key-value-store-id"
	KeyInputKey        = "input-key"
	KeyAPIBaseURL      = "api-base-url"
	KeyTimeout         = "timeout"
	KeyRetries         = "retries"
	KeyLogLevel        = "log-level"
)

// DefaultInputKey is the record key holding a job's input when no override
// is configured.
const DefaultInputKey = "INPUT"

// EnvVar returns the full environment variable name for a configuration key.
// Used in error messages so a failing process names the variable to set.
func EnvVar(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, "-", "_"))
}

// Config holds all configuration consumed by the store engines, the
// resolver and the record service client.
type Config struct {
	// LocalStorageDir is the root directory of the local storage mirror.
	// When set, stores resolve to the filesystem engine by default.
	LocalStorageDir string
	// Token authenticates against the remote record service.
	Token string
	// DefaultStoreID is the store opened when no identifier is given.
	DefaultStoreID string
	// InputKey is the record key read by GetInput.
	InputKey string
	// APIBaseURL is the base URL of the record service API.
	APIBaseURL string
	// TimeoutSecond bounds each record service request.
	TimeoutSecond int
	// RetryCount is the number of network-level attempts per request.
	RetryCount int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Init loads .env files and wires viper to the process environment.
// It must be called once before Load, typically from cobra.OnInitialize.
func Init() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyInputKey, DefaultInputKey)
	viper.SetDefault(KeyAPIBaseURL, "https://api.kvmirror.io/v2")
	viper.SetDefault(KeyTimeout, 30)
	viper.SetDefault(KeyRetries, 3)
	viper.SetDefault(KeyLogLevel, "info")
}

// Load reads the configuration from viper.
func Load() Config {
	return Config{
		LocalStorageDir: viper.GetString(KeyLocalStorageDir),
		Token:           viper.GetString(KeyToken),
		DefaultStoreID:  viper.GetString(KeyDefaultStoreID),
		InputKey:        viper.GetString(KeyInputKey),
		APIBaseURL:      viper.GetString(KeyAPIBaseURL),
		TimeoutSecond:   viper.GetInt(KeyTimeout),
		RetryCount:      viper.GetInt(KeyRetries),
		LogLevel:        viper.GetString(KeyLogLevel),
	}
}

// String returns a formatted representation of the configuration with the
// token redacted.
func (c Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	if c.LocalStorageDir != "" {
		addField("Mode", "local")
		addField("Local Storage Dir", c.LocalStorageDir)
	} else {
		addField("Mode", "cloud")
	}
	addField("Default Store ID", c.DefaultStoreID)
	addField("Input Key", c.InputKey)

	addSection("Record Service")
	addField("API Base URL", c.APIBaseURL)
	addField("Token", redact(c.Token))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", fmt.Sprintf("%d", c.RetryCount))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

func redact(token string) string {
	if token == "" {
		return "(not set)"
	}
	return "********"
}
