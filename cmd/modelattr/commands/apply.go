package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jacentio/modelattr/attribute"
	"github.com/jacentio/modelattr/pbattr"
)

// applyResult is the output of the apply command.
type applyResult struct {
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
	Changes    map[string]any `json:"changes" yaml:"changes"`
}

func newApplyCommand(a *app) *cobra.Command {
	var (
		model        string
		basePath     string
		allowPrivate bool
	)

	cmd := &cobra.Command{
		Use:   "apply [input.json|-]",
		Short: "Mass assign attributes to a model and print its changes",
		Long: `Mass assign the attributes of a JSON object to a new model and print the
resulting snapshot and change log.

With --base, the model is first loaded from the base object, private attributes
included, and the change log is cleared, so the changes are relative to it.
Keys that are not declared attributes are ignored, as are private attributes
unless --private is given.

--output protojson prints the result as a google.protobuf.Struct message.`,
		Example: `  # Changes of a new model
  modelattr apply --file models.yaml --model User input.json

  # Changes relative to a stored item, reading the input from stdin
  cat input.json | modelattr apply --file models.yaml --model User --base item.json -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) > 0 {
				input = args[0]
			}

			r, err := a.registry()
			if err != nil {
				return err
			}
			schema, err := r.Schema(model)
			if err != nil {
				return err
			}
			m := schema.New()

			if basePath != "" {
				base, err := readJSONObject(cmd, basePath)
				if err != nil {
					return err
				}
				if err := m.SetAttributes(base, true); err != nil {
					return fmt.Errorf("base: %w", err)
				}
				m.ClearChanges()
			}

			attrs, err := readJSONObject(cmd, input)
			if err != nil {
				return err
			}
			if err := m.SetAttributes(attrs, allowPrivate); err != nil {
				return err
			}

			a.logger.Debug().
				Str("model", model).
				Int("changed", len(m.Changes())).
				Msg("applied attributes")

			if format, _ := cmd.Flags().GetString("output"); format == "protojson" {
				return writeStruct(cmd, m)
			}
			return writeOutput(cmd, applyResult{
				Attributes: m.AttributesForJSON(),
				Changes:    m.ChangesForJSON(),
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model name")
	cmd.Flags().StringVar(&basePath, "base", "", "JSON object the model is loaded from first")
	cmd.Flags().BoolVar(&allowPrivate, "private", false, "allow assigning private attributes")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// writeStruct prints the snapshot and changes of m as a protobuf Struct.
func writeStruct(cmd *cobra.Command, m *attribute.Model) error {
	attrs, err := pbattr.Struct(m)
	if err != nil {
		return err
	}
	changes, err := pbattr.ChangesStruct(m)
	if err != nil {
		return err
	}
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"attributes": structpb.NewStructValue(attrs),
		"changes":    structpb.NewStructValue(changes),
	}}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
