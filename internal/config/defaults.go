package config

import "time"

// Storage quota default, modelled on the browser localStorage budget
// the payloads were originally sized against.
const defaultStorageQuota = 5 * 1024 * 1024

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			QuotaBytes: defaultStorageQuota,
		},
		Favicon: FaviconConfig{
			FetchTimeout: 5 * time.Second,
		},
		Currency: CurrencyConfig{
			APIURL: "https://api.fxratesapi.com/latest",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
