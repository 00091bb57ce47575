package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/modelattr/internal/config"
	"github.com/jacentio/modelattr/internal/logging"
	"github.com/jacentio/modelattr/schemadef"
)

// app is the state shared by the subcommands, set up before each run.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	a := &app{v: config.New()}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "modelattr",
		Short: "Typed model attributes with change tracking",
		Long: `modelattr declares typed model attributes in a YAML schema file, casts raw
values to the declared types, and reports the changes made to a model.

Supported types: integer, float, boolean, string, time, json.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(a.v, configPath); err != nil {
				return err
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Config{
				Level:  cfg.Log.Level,
				Pretty: cfg.Log.Pretty,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	// Persistent flags available to all commands
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human-readable log output")
	flags.StringP("file", "f", "", "schema definition file (YAML)")
	flags.StringP("output", "o", "json", "output format (json, yaml, protojson for apply)")

	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogPretty, flags.Lookup("log-pretty"))
	_ = a.v.BindPFlag(config.KeySchemaFile, flags.Lookup("file"))

	// Add subcommands
	rootCmd.AddCommand(newSchemaCommand(a))
	rootCmd.AddCommand(newCastCommand(a))
	rootCmd.AddCommand(newApplyCommand(a))

	return rootCmd
}

// registry loads the schema file named by --file or MODELATTR_SCHEMA_FILE.
func (a *app) registry() (*schemadef.Registry, error) {
	path := a.cfg.Schema.File
	if path == "" {
		return nil, fmt.Errorf("no schema file: set --file or MODELATTR_SCHEMA_FILE")
	}
	r, err := schemadef.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("file", path).Strs("models", r.Names()).Msg("loaded schema")
	return r, nil
}

// writeOutput encodes v to w in the format named by --output.
func writeOutput(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (json, yaml)", format)
}

// readJSONObject decodes a JSON object from path, or from stdin when path is
// "-". Numbers are kept as json.Number.
func readJSONObject(cmd *cobra.Command, path string) (map[string]any, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return obj, nil
}
