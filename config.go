package scriptrt

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
)

// Config is runtime tuning for a scriptrt server: pool size, timeouts,
// listen address — distinct from the per-project YAML route manifest
// (manifest.go), the way the teacher framework separates its own Config
// from a project's templates/static assets.
type Config struct {
	AppName string `mapstructure:"app_name"`

	DebugMode bool   `mapstructure:"debug_mode"`
	LogFormat string `mapstructure:"log_format"`

	Address string `mapstructure:"address"`

	PoolSize int `mapstructure:"pool_size"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	TLSCertFile string `mapstructure:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file"`

	ACMEEnabled      bool     `mapstructure:"acme_enabled"`
	ACMECertRoot     string   `mapstructure:"acme_cert_root"`
	ACMEHostWhitelist []string `mapstructure:"acme_host_whitelist"`
}

// NewConfig returns a Config with scriptrt's defaults, named appName.
func NewConfig(appName string) *Config {
	return &Config{
		AppName: appName,
		LogFormat: `{"app_name":"${app_name}","time":"${time_rfc3339}",` +
			`"level":"${level}","file":"${short_file}","line":"${line}"}`,
		Address:       "localhost:3000",
		PoolSize:      12,
		WatchDebounce: 2 * time.Second,
		ACMECertRoot:  "acme-certs",
	}
}

// LoadFile merges the TOML file at path into c, decoding through
// mapstructure the same way the teacher framework decodes its own parsed
// config map into an Air{}.
func (c *Config) LoadFile(path string) error {
	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}
	return mapstructure.Decode(raw, c)
}
