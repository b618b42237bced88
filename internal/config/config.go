package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable devkit reads.
const EnvPrefix = "DEVKIT"

// NukeEnableVariable is the environment variable that opts in to nuke.
const NukeEnableVariable = EnvPrefix + "_NUKE_ENABLED"

// Database drivers understood by the SQL store.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config is the fully resolved devkit configuration.
// It is built once at startup and passed to the components that need it.
type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Nuke   NukeConfig   `mapstructure:"nuke"`
	SSH    SSHConfig    `mapstructure:"ssh"`
	Git    GitConfig    `mapstructure:"git"`
	Remote RemoteConfig `mapstructure:"remote"`
}

// DBConfig holds connection settings for the config database.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	DSN      string `mapstructure:"dsn"` // overrides the composed DSN
}

// NukeConfig holds settings for the client cleanup workflow.
type NukeConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Container       string `mapstructure:"container"` // name or regex
	DataDir         string `mapstructure:"data_dir"`
	SettingsTable   string `mapstructure:"settings_table"`
	SettingsColumn  string `mapstructure:"settings_column"`
	OwnerTable      string `mapstructure:"owner_table"`
	OwnerNameColumn string `mapstructure:"owner_name_column"`
	OwnerLinkColumn string `mapstructure:"owner_link_column"` // empty disables owner lookups
}

// SSHConfig holds settings for the managed ssh client config block.
type SSHConfig struct {
	ConfigPath string    `mapstructure:"config_path"`
	Hosts      []SSHHost `mapstructure:"hosts"`
}

// SSHHost is one managed Host block.
type SSHHost struct {
	Alias        string `mapstructure:"alias"`
	HostName     string `mapstructure:"hostname"`
	User         string `mapstructure:"user"`
	Port         int    `mapstructure:"port"`
	IdentityFile string `mapstructure:"identity_file"`
}

// GitConfig holds named git identity profiles.
type GitConfig struct {
	Profiles map[string]GitProfile `mapstructure:"profiles"`
}

// GitProfile is a git identity applied to a local repository.
type GitProfile struct {
	Name         string `mapstructure:"name"`
	Email        string `mapstructure:"email"`
	IdentityFile string `mapstructure:"identity_file"`
}

// RemoteConfig holds defaults for remote-prepare.
type RemoteConfig struct {
	RepoURL string `mapstructure:"repo_url"`
	Target  string `mapstructure:"target"`
}

// Load builds a Config from defaults, an optional YAML file and DEVKIT_* env vars.
// An empty path means the default location; a missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.SSH.ConfigPath = expandHome(cfg.SSH.ConfigPath)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverMySQL)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.name", "")
	v.SetDefault("db.dsn", "")

	v.SetDefault("nuke.enabled", false)
	v.SetDefault("nuke.container", "")
	v.SetDefault("nuke.data_dir", "/var/www/storage/clients")
	v.SetDefault("nuke.settings_table", "settings")
	v.SetDefault("nuke.settings_column", "client")
	v.SetDefault("nuke.owner_table", "clients")
	v.SetDefault("nuke.owner_name_column", "name")
	v.SetDefault("nuke.owner_link_column", "")

	v.SetDefault("ssh.config_path", "~/.ssh/config")
	v.SetDefault("remote.repo_url", "")
	v.SetDefault("remote.target", "~/.dotfiles")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/devkit/config.yaml (or ~/.config/devkit/config.yaml).
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devkit", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "devkit", "config.yaml")
}

// Missing returns the names of nuke settings that must be set before the
// workflow can talk to its collaborators.
func (c *Config) Missing() []string {
	var missing []string
	if c.Nuke.Container == "" {
		missing = append(missing, "nuke.container")
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		missing = append(missing, "db.dsn")
	}
	if c.DB.Driver == DriverMySQL && c.DB.DSN == "" && c.DB.Name == "" {
		missing = append(missing, "db.name")
	}
	return missing
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
