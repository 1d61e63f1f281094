// Package config provides configuration management for the dao CLI.
//
// Settings come from three places, strongest first: command-line flags, the
// environment (the location variable) and the client config file:
//
//	client:
//	  master_url: http://localhost:5000/v1.0/
//	  location_var: DAO_LOCATION
//	  location: ""
//	  timeout: 8
//
// A missing config file at the default path is not an error; an explicitly
// named one must exist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/concave-dev/dao/internal/logging"
	"github.com/concave-dev/dao/internal/projection"
	"github.com/concave-dev/dao/internal/validate"
	"github.com/concave-dev/dao/internal/version"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath  = "/etc/dao/client.yaml"        // Client config file read when --config is not given
	DefaultMasterURL   = "http://localhost:5000/v1.0/" // Master base URL; "tasks" is resolved against it
	DefaultLocationVar = "DAO_LOCATION"                // Environment variable holding the location
	DefaultTimeout     = 8                             // Request timeout in seconds
	DefaultFormat      = "print"                       // Output format
)

// Version returns the current dao CLI version from the centralized version package
var Version = version.DaoVersion

// Options holds the global CLI flags of one run.
type Options struct {
	Format     string // Output format: print, json
	Filter     string // Comma separated field paths
	Debug      bool   // Extended error output
	Location   string // Location override
	MasterURL  string // Master URL override
	ConfigPath string // Client config file
	Timeout    int    // Request timeout in seconds, 0 uses the config file
	LogLevel   string // Log level for CLI operations
}

// File is the client config file.
type File struct {
	Client ClientSection `yaml:"client"`
}

// ClientSection holds the [client] settings.
type ClientSection struct {
	MasterURL   string `yaml:"master_url" validate:"required,url"`
	LocationVar string `yaml:"location_var" validate:"required"`
	Location    string `yaml:"location"`
	Timeout     int    `yaml:"timeout" validate:"min=1"`
}

// DefaultFile returns the settings used when no config file exists.
func DefaultFile() *File {
	return &File{Client: ClientSection{
		MasterURL:   DefaultMasterURL,
		LocationVar: DefaultLocationVar,
		Timeout:     DefaultTimeout,
	}}
}

// LoadFile reads the config file at path over the defaults. When explicit is
// false a missing file yields the defaults.
func LoadFile(path string, explicit bool) (*File, error) {
	cfg := DefaultFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			logging.Debug("Config file %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := validate.ValidateStruct(cfg.Client); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	logging.Debug("Loaded config file %s", path)
	return cfg, nil
}

// Invocation is the per-run context every operation sees. It is built once
// and not modified afterwards.
type Invocation struct {
	User     string
	Location string
	Format   string
	Fields   []string
}

// Settings are the effective connection settings after merging flags, the
// environment and the config file.
type Settings struct {
	MasterURL string
	Timeout   time.Duration
	Location  string
}

// Resolve merges opts over file. getenv looks up the location variable.
func Resolve(opts *Options, file *File, getenv func(string) string) (*Settings, error) {
	if file == nil {
		file = DefaultFile()
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	masterURL := file.Client.MasterURL
	if opts.MasterURL != "" {
		masterURL = opts.MasterURL
	}

	timeout := file.Client.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	location, err := ResolveLocation(opts.Location, file.Client, getenv)
	if err != nil {
		return nil, err
	}

	return &Settings{
		MasterURL: masterURL,
		Timeout:   time.Duration(timeout) * time.Second,
		Location:  location,
	}, nil
}

// ResolveLocation picks the location from the flag, then the environment
// variable named by the config, then the config file. The result is
// upper-cased.
func ResolveLocation(flag string, client ClientSection, getenv func(string) string) (string, error) {
	location := flag
	if location == "" && client.LocationVar != "" {
		location = getenv(client.LocationVar)
	}
	if location == "" {
		location = client.Location
	}
	if strings.TrimSpace(location) == "" {
		return "", fmt.Errorf("either --location or %s should be specified", client.LocationVar)
	}

	return validate.CanonicalLocation(location)
}

// NewInvocation builds the invocation context for user.
func NewInvocation(opts *Options, user, location string) Invocation {
	return Invocation{
		User:     user,
		Location: location,
		Format:   opts.Format,
		Fields:   projection.ParseFields(opts.Filter),
	}
}
