package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SQLServerConfig holds everything needed to reach the target SQL Server.
// Resolution precedence: explicit flags > config file > environment >
// defaults.
type SQLServerConfig struct {
	Server                 string `yaml:"server"`
	Port                   int    `yaml:"port"`
	Database               string `yaml:"database"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	TrustedConnection      bool   `yaml:"trusted_connection"`
	Encrypt                bool   `yaml:"encrypt"`
	TrustServerCertificate bool   `yaml:"trust_server_certificate"`
	ConnectTimeout         int    `yaml:"connect_timeout"`
}

func setConfigDefaults() {
	viper.SetDefault("sql_server.server", "localhost")
	viper.SetDefault("sql_server.port", 1433)
	viper.SetDefault("sql_server.database", "master")
	viper.SetDefault("sql_server.encrypt", true)
	viper.SetDefault("sql_server.trust_server_certificate", false)
	viper.SetDefault("sql_server.connect_timeout", 30)
	viper.SetDefault("safe_mode", true)
	viper.SetDefault("generator.dataareaid", "USMF")
	viper.SetDefault("generator.delimiter", "|")
	viper.SetDefault("generator.sample_rows", 100)
}

// LoadSQLConfig resolves the SQL Server configuration from viper. Keys are
// read individually so environment bindings apply alongside file values and
// flag overrides.
func LoadSQLConfig() SQLServerConfig {
	return SQLServerConfig{
		Server:                 viper.GetString("sql_server.server"),
		Port:                   viper.GetInt("sql_server.port"),
		Database:               viper.GetString("sql_server.database"),
		User:                   viper.GetString("sql_server.user"),
		Password:               viper.GetString("sql_server.password"),
		TrustedConnection:      viper.GetBool("sql_server.trusted_connection"),
		Encrypt:                viper.GetBool("sql_server.encrypt"),
		TrustServerCertificate: viper.GetBool("sql_server.trust_server_certificate"),
		ConnectTimeout:         viper.GetInt("sql_server.connect_timeout"),
	}
}

// ConnectionString renders the configuration in go-mssqldb URL form. With a
// trusted connection the user info is omitted so the driver falls back to
// integrated authentication.
func (c SQLServerConfig) ConnectionString() string {
	query := url.Values{}
	query.Set("database", c.Database)
	query.Set("encrypt", boolParam(c.Encrypt))
	if c.TrustServerCertificate {
		query.Set("trustservercertificate", "true")
	}
	if c.ConnectTimeout > 0 {
		query.Set("connection timeout", fmt.Sprintf("%d", c.ConnectTimeout))
	}

	u := url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%d", c.Server, c.Port),
		RawQuery: query.Encode(),
	}
	if !c.TrustedConnection && c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Redacted returns a copy safe for display and logging.
func (c SQLServerConfig) Redacted() SQLServerConfig {
	if c.Password != "" {
		c.Password = "***"
	}
	return c
}

// FormatConfig renders the resolved configuration for `config show`.
func FormatConfig(cfg SQLServerConfig, safeMode bool) string {
	r := cfg.Redacted()
	var sb strings.Builder
	sb.WriteString("SQL Server configuration:\n")
	sb.WriteString(fmt.Sprintf("  Server: %s\n", r.Server))
	sb.WriteString(fmt.Sprintf("  Port: %d\n", r.Port))
	sb.WriteString(fmt.Sprintf("  Database: %s\n", r.Database))
	sb.WriteString(fmt.Sprintf("  User: %s\n", displayOrUnset(r.User)))
	sb.WriteString(fmt.Sprintf("  Password: %s\n", displayOrUnset(r.Password)))
	sb.WriteString(fmt.Sprintf("  Trusted connection: %t\n", r.TrustedConnection))
	sb.WriteString(fmt.Sprintf("  Encrypt: %t\n", r.Encrypt))
	sb.WriteString(fmt.Sprintf("  Trust server certificate: %t\n", r.TrustServerCertificate))
	sb.WriteString(fmt.Sprintf("  Connect timeout: %ds\n", r.ConnectTimeout))
	sb.WriteString(fmt.Sprintf("  Safe mode: %t\n", safeMode))
	return sb.String()
}

func displayOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// CreateSampleConfig writes a starter config file the operator can edit.
func CreateSampleConfig(path string) error {
	sample := map[string]any{
		"sql_server": SQLServerConfig{
			Server:         "your-server.database.windows.net",
			Port:           1433,
			Database:       "your_database",
			User:           "your_username",
			Password:       "your_password",
			Encrypt:        true,
			ConnectTimeout: 30,
		},
		"safe_mode": true,
		"generator": map[string]any{
			"dataareaid":  "USMF",
			"delimiter":   "|",
			"sample_rows": 100,
		},
	}

	data, err := yaml.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sample config: %w", err)
	}
	return nil
}
