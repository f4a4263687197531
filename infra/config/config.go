package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL   = "https://comments.example.com"
	defaultPageSize = 20
	maxPageSize     = 100
	appDir          = "threadline"
)

// Config holds application-level configuration.
type Config struct {
	APIURL       string `yaml:"api_url"`    // e.g. "https://comments.example.com"
	TokenPath    string `yaml:"token_path"` // Path to file containing the access token
	Target       string `yaml:"target"`     // Post or poll whose comments are shown
	AccountID    string `yaml:"account_id"` // Marks own comments when the server omits is_own
	PageSize     int    `yaml:"page_size"`
	ParentLevels int    `yaml:"parent_levels"`
	ReplyDepth   int    `yaml:"reply_depth"`
	LogLevel     string `yaml:"log_level"`
	LogFile      string `yaml:"log_file"`
	StatePath    string `yaml:"state_path"` // UI preferences file
}

// Default returns the configuration used when nothing is set.
func Default() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		APIURL:       defaultAPIURL,
		TokenPath:    filepath.Join(dir, "token"),
		PageSize:     defaultPageSize,
		ParentLevels: 3,
		ReplyDepth:   6,
		LogLevel:     "info",
		LogFile:      filepath.Join(dir, "threadline.log"),
		StatePath:    filepath.Join(dir, "ui_state.json"),
	}, nil
}

// Load builds the configuration in three layers: defaults, then the YAML
// file (THREADLINE_CONFIG or ~/.config/threadline/config.yaml, if present),
// then environment variables.
//
//	THREADLINE_API       : API base URL, https only
//	THREADLINE_TOKEN     : Path to token file
//	THREADLINE_TARGET    : Post or poll reference to open
//	THREADLINE_ACCOUNT_ID: Own account id
//	THREADLINE_PAGE_SIZE : Comments per page (1-100)
//	THREADLINE_LOG_LEVEL : debug, info, warn, error
//	THREADLINE_LOG_FILE  : Log destination
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	path := os.Getenv("THREADLINE_CONFIG")
	explicit := path != ""
	if !explicit {
		dir, _ := configDir()
		path = filepath.Join(dir, "config.yaml")
	}
	file, err := LoadFile(path)
	switch {
	case err == nil:
		cfg.Merge(file)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, err
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays every non-zero field of other onto c.
func (c *Config) Merge(other Config) {
	setString(&c.APIURL, other.APIURL)
	setString(&c.TokenPath, other.TokenPath)
	setString(&c.Target, other.Target)
	setString(&c.AccountID, other.AccountID)
	setString(&c.LogLevel, other.LogLevel)
	setString(&c.LogFile, other.LogFile)
	setString(&c.StatePath, other.StatePath)
	if other.PageSize != 0 {
		c.PageSize = other.PageSize
	}
	if other.ParentLevels != 0 {
		c.ParentLevels = other.ParentLevels
	}
	if other.ReplyDepth != 0 {
		c.ReplyDepth = other.ReplyDepth
	}
}

// Validate normalises the API URL and checks numeric bounds.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid THREADLINE_API: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("invalid THREADLINE_API: only https is allowed")
	}
	c.APIURL = strings.TrimRight(parsed.String(), "/")

	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return fmt.Errorf("invalid page size %d: must be between 1 and %d", c.PageSize, maxPageSize)
	}
	if c.ParentLevels < 0 || c.ReplyDepth < 0 {
		return fmt.Errorf("thread depths must not be negative")
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.APIURL, os.Getenv("THREADLINE_API"))
	setString(&c.TokenPath, os.Getenv("THREADLINE_TOKEN"))
	setString(&c.Target, os.Getenv("THREADLINE_TARGET"))
	setString(&c.AccountID, os.Getenv("THREADLINE_ACCOUNT_ID"))
	setString(&c.LogLevel, os.Getenv("THREADLINE_LOG_LEVEL"))
	setString(&c.LogFile, os.Getenv("THREADLINE_LOG_FILE"))
	if v := strings.TrimSpace(os.Getenv("THREADLINE_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid THREADLINE_PAGE_SIZE %q: %w", v, err)
		}
		c.PageSize = n
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}
