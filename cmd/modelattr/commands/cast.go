package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/modelattr/attribute"
)

// castResult is the output of the cast command.
type castResult struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

func newCastCommand(a *app) *cobra.Command {
	var (
		typeName string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "cast VALUE",
		Short: "Cast a value to an attribute type",
		Long: `Cast a value to an attribute type and print the result in its JSON form.
Time values are printed as milliseconds since the Unix epoch.

The value is text unless --json is given, in which case it is decoded as a
JSON document first.`,
		Example: `  # Integer text
  modelattr cast --type integer 42

  # Float seconds since the epoch
  modelattr cast --type time --json 1419465600.5

  # JSON document
  modelattr cast --type json --json '{"theme": "dark"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := attribute.ParseType(typeName)
			if err != nil {
				return err
			}

			var raw any = args[0]
			if asJSON {
				dec := json.NewDecoder(bytes.NewReader([]byte(args[0])))
				dec.UseNumber()
				if err := dec.Decode(&raw); err != nil {
					return fmt.Errorf("decode value: %w", err)
				}
			}

			v, err := attribute.Cast(raw, t)
			if err != nil {
				return err
			}
			a.logger.Debug().Str("type", t.String()).Str("value", v.String()).Msg("cast value")
			return writeOutput(cmd, castResult{Type: t.String(), Value: v.JSONValue()})
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "attribute type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "decode the value as JSON")

	return cmd
}
