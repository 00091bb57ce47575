package commands

import (
	"github.com/spf13/cobra"

	"github.com/jacentio/modelattr/schemadef"
)

func newSchemaCommand(a *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the models of a schema file",
		Long: `Load and validate a schema definition file, then print every model with its
attributes, inherited attributes included, and defaults in their JSON form.`,
		Example: `  # Print all models
  modelattr schema --file models.yaml --output yaml

  # Print a single model
  modelattr schema --file models.yaml --model User`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.registry()
			if err != nil {
				return err
			}

			if model == "" {
				return writeOutput(cmd, r.Definition())
			}
			s, err := r.Schema(model)
			if err != nil {
				return err
			}
			def := schemadef.Describe(s)
			def.Table = r.Table(model)
			return writeOutput(cmd, def)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "print only this model")

	return cmd
}
