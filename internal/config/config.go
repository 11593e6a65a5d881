package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRailFeedURL     = "https://mdotmta-gtfs-rt.s3.amazonaws.com/MARC+RT/marc-tu.pb"
	DefaultStaticBundleURL = "https://feeds.mta.maryland.gov/gtfs/marc"
	DefaultReferenceDir    = "mdotmta_gtfs_marc"
	DefaultMetroBaseURL    = "http://api.wmata.com"
	DefaultOutputPath      = "DepartureBoard.html"

	APIKeyEnv = "WMATA_API_KEY"
)

// MARC terminals, by stop ID.
var DefaultTerminalNames = map[string]string{
	"11958": "Washington",
	"12006": "Baltimore Camden",
	"12008": "Dorsey",
	"12025": "Dorsey",
	"11980": "Baltimore Penn",
	"12002": "Baltimore Penn",
}

type Config struct {
	RailCode       string `toml:"rail_code" yaml:"rail_code" validate:"omitempty,station_pair"`
	MetroCode      string `toml:"metro_code" yaml:"metro_code" validate:"omitempty,alphanum"`
	RefreshSeconds int    `toml:"refresh" yaml:"refresh" validate:"gte=0"`

	RailFeedURL     string `toml:"rail_feed_url" yaml:"rail_feed_url" validate:"required,url"`
	StaticBundleURL string `toml:"static_bundle_url" yaml:"static_bundle_url" validate:"omitempty,url"`
	ReferenceDir    string `toml:"reference_dir" yaml:"reference_dir" validate:"required"`

	MetroBaseURL  string `toml:"metro_base_url" yaml:"metro_base_url" validate:"required,url"`
	MetroAPIKey   string `toml:"metro_api_key" yaml:"metro_api_key"`
	MetroKeyFile  string `toml:"metro_key_file" yaml:"metro_key_file" validate:"required_with=MetroPassFile"`
	MetroPassFile string `toml:"metro_pass_file" yaml:"metro_pass_file" validate:"required_with=MetroKeyFile"`

	TemplatePath  string            `toml:"template_path" yaml:"template_path"`
	OutputPath    string            `toml:"output_path" yaml:"output_path" validate:"required"`
	AssetsDir     string            `toml:"assets_dir" yaml:"assets_dir"`
	TerminalNames map[string]string `toml:"terminal_names" yaml:"terminal_names"`
	StaticRows    []string          `toml:"static_rows" yaml:"static_rows" validate:"omitempty,len=2"`
	EscapeNames   bool              `toml:"escape_names" yaml:"escape_names"`
	OpenBrowser   bool              `toml:"open_browser" yaml:"open_browser"`

	HTTPTimeoutSeconds int `toml:"http_timeout_seconds" yaml:"http_timeout_seconds" validate:"gte=0"`

	Listen    string `toml:"listen" yaml:"listen" validate:"omitempty,hostname_port"`
	Telemetry string `toml:"telemetry" yaml:"telemetry" validate:"omitempty,hostname_port"`
	Database  string `toml:"database" yaml:"database"`
}

func Default() Config {
	terminalNames := make(map[string]string, len(DefaultTerminalNames))
	for stopID, name := range DefaultTerminalNames {
		terminalNames[stopID] = name
	}

	return Config{
		RailFeedURL:        DefaultRailFeedURL,
		StaticBundleURL:    DefaultStaticBundleURL,
		ReferenceDir:       DefaultReferenceDir,
		MetroBaseURL:       DefaultMetroBaseURL,
		MetroKeyFile:       "metro_api.enc",
		MetroPassFile:      "file_key.key",
		OutputPath:         DefaultOutputPath,
		AssetsDir:          "images",
		TerminalNames:      terminalNames,
		OpenBrowser:        true,
		HTTPTimeoutSeconds: 10,
	}
}

// LoadFile decodes a .toml, .yaml or .yml file over cfg. Keys absent from the
// file keep their current values. A terminal_names table replaces the current
// map rather than adding to it.
func LoadFile(path string, cfg *Config) error {
	terminalNames := cfg.TerminalNames
	cfg.TerminalNames = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			cfg.TerminalNames = terminalNames
			return err
		}
		if !meta.IsDefined("terminal_names") {
			cfg.TerminalNames = terminalNames
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err == nil {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			cfg.TerminalNames = terminalNames
			return err
		}
		if cfg.TerminalNames == nil {
			cfg.TerminalNames = terminalNames
		}
	default:
		cfg.TerminalNames = terminalNames
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	return nil
}

func (cfg *Config) ApplyEnvironment() {
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.MetroAPIKey = key
	}
}

func (cfg Config) HTTPTimeout() time.Duration {
	return time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
}

func (cfg Config) Refresh() time.Duration {
	return time.Duration(cfg.RefreshSeconds) * time.Second
}

var stationPairPattern = regexp.MustCompile(`^[^-\s]+-[^-\s]+$`)

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("station_pair", func(fl validator.FieldLevel) bool {
		return stationPairPattern.MatchString(fl.Field().String())
	})
	return validate
}

func (cfg Config) Validate() error {
	return newValidator().Struct(cfg)
}
