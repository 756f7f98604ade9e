// Package config describes the environment variables the backend recognises,
// validates a configuration map against the required set, and holds the
// runtime settings of the setup tool itself.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Viper keys. They double as flag names; the environment form is
// MEETCUTE_SETUP_ plus the upper-cased key with '-' replaced by '_'.
const (
	KeyEnvFile        = "env-file"
	KeyTemplateFile   = "template"
	KeyAdminDatabase  = "admin-db"
	KeyMigrateCommand = "migrate-cmd"
	KeySeedCommand    = "seed-cmd"
	KeyMigrationsDir  = "migrations-dir"
	KeyWorkDir        = "workdir"
	KeyConnectTimeout = "connect-timeout"
	KeyVerbose        = "verbose"
)

// EnvPrefix is the prefix for environment overrides of the tool settings.
const EnvPrefix = "MEETCUTE_SETUP"

// Config holds runtime settings for the setup tool.
//
// Fields:
//   - EnvFile: the KEY=VALUE file edited by the menu and read by bootstrap.
//   - TemplateFile: file merged by the menu's import action.
//   - AdminDatabase: database used for probing and CREATE DATABASE.
//   - MigrateCommand / SeedCommand: external processes run by bootstrap.
//   - MigrationsDir: when set, migrations run in-process with goose instead
//     of MigrateCommand.
//   - WorkDir: working directory for the external processes.
//   - ConnectTimeout: bound on each connect+query round trip.
type Config struct {
	EnvFile        string
	TemplateFile   string
	AdminDatabase  string
	MigrateCommand []string
	SeedCommand    []string
	MigrationsDir  string
	WorkDir        string
	ConnectTimeout time.Duration
	Verbose        bool
}

// LoadDefaults populates c with defaults suitable for a local checkout of
// the backend.
func (c *Config) LoadDefaults() {
	c.EnvFile = ".env"
	c.TemplateFile = ".env.example"
	c.AdminDatabase = "postgres"
	c.MigrateCommand = []string{"npx", "sequelize-cli", "db:migrate"}
	c.SeedCommand = []string{"npm", "run", "seed"}
	c.MigrationsDir = ""
	c.WorkDir = ""
	c.ConnectTimeout = 10 * time.Second
	c.Verbose = false
}

// SetDefaults registers the defaults with v so that flags and environment
// variables bound later overlay them.
func SetDefaults(v *viper.Viper) {
	var c Config
	c.LoadDefaults()

	v.SetDefault(KeyEnvFile, c.EnvFile)
	v.SetDefault(KeyTemplateFile, c.TemplateFile)
	v.SetDefault(KeyAdminDatabase, c.AdminDatabase)
	v.SetDefault(KeyMigrateCommand, strings.Join(c.MigrateCommand, " "))
	v.SetDefault(KeySeedCommand, strings.Join(c.SeedCommand, " "))
	v.SetDefault(KeyMigrationsDir, c.MigrationsDir)
	v.SetDefault(KeyWorkDir, c.WorkDir)
	v.SetDefault(KeyConnectTimeout, c.ConnectTimeout)
	v.SetDefault(KeyVerbose, c.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// LoadConfig builds a Config from defaults overlaid with whatever v resolves
// (environment, then bound flags).
func LoadConfig(v *viper.Viper) *Config {
	c := &Config{}
	c.LoadDefaults()

	c.EnvFile = v.GetString(KeyEnvFile)
	c.TemplateFile = v.GetString(KeyTemplateFile)
	c.AdminDatabase = v.GetString(KeyAdminDatabase)
	c.MigrateCommand = strings.Fields(v.GetString(KeyMigrateCommand))
	c.SeedCommand = strings.Fields(v.GetString(KeySeedCommand))
	c.MigrationsDir = v.GetString(KeyMigrationsDir)
	c.WorkDir = v.GetString(KeyWorkDir)
	if d := v.GetDuration(KeyConnectTimeout); d > 0 {
		c.ConnectTimeout = d
	}
	c.Verbose = v.GetBool(KeyVerbose)

	return c
}
