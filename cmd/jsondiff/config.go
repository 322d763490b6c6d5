package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/qri-io/jsondiff"
	"github.com/qri-io/jsondiff/schedule"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration
type Config struct {
	Policy schedule.Policy `yaml:"policy"`
	// MaxDepth bounds diff recursion, zero selects the library default
	MaxDepth int         `yaml:"maxDepth" validate:"gte=0"`
	Serve    ServeConfig `yaml:"serve"`
}

// ServeConfig configures the serve command
type ServeConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Policy:   schedule.DefaultPolicy(),
		MaxDepth: jsondiff.DefaultMaxDepth,
		Serve:    ServeConfig{Addr: "localhost:8080"},
	}
}

var validate = validator.New()

// Validate checks every field of the configuration
func (c *Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%s failed %q validation", e.Namespace(), e.Tag())
		}
		return err
	}
	return nil
}

// DecodeConfig reads YAML over the defaults, so a file only needs the
// fields it changes. unknown fields are an error
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and validates a configuration file
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// EncodeConfig writes cfg as YAML
func EncodeConfig(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

const configHeader = `# jsondiff configuration
#
# policy.tiers are byte thresholds. small < medium <= warning <= large.
# inputs below tiers.medium debounce by fastDelay, larger ones by slowDelay.
`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jsondiff configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [file]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".jsondiff.yml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("configuration file %s already exists", path)
			}

			buf := &bytes.Buffer{}
			buf.WriteString(configHeader)
			if err := EncodeConfig(buf, DefaultConfig()); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration file created: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "configuration is valid\n")
			fmt.Fprintf(out, "  tiers: small=%d medium=%d warning=%d large=%d\n",
				cfg.Policy.Tiers.Small, cfg.Policy.Tiers.Medium, cfg.Policy.Tiers.Warning, cfg.Policy.Tiers.Large)
			fmt.Fprintf(out, "  delays: fast=%s slow=%s\n", cfg.Policy.FastDelay, cfg.Policy.SlowDelay)
			fmt.Fprintf(out, "  maxDepth: %d\n", cfg.MaxDepth)
			fmt.Fprintf(out, "  serve.addr: %s\n", cfg.Serve.Addr)
			return nil
		},
	})

	return cmd
}
