package main

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func schemaCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the demo form's JSON schema",
		Long: `Print the JSON schema projection of the demo contact form.

The same structure is served at /forms/contact/schema by the demo
server, for front-end renderers that build the form client-side.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := demoForm(zerolog.Nop())
			enc := json.NewEncoder(os.Stdout)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(form.Schema())
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print without indentation")

	return cmd
}
