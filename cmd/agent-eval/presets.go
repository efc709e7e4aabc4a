package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
)

func newPresetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List model and mock presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models := llm.Presets()
			mocks := mock.Presets()

			if asJSON {
				b, err := json.Marshal(map[string]any{
					"models": models,
					"mocks":  mocks,
				})
				if err != nil {
					return fmt.Errorf("presets: encode: %w", err)
				}
				cmd.Println(string(b))
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tPROVIDER\tID\tDESCRIPTION")
			for _, p := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Provider, p.Model, p.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			cmd.Println()

			tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MOCK\tTYPE\tDESCRIPTION")
			for _, p := range mocks {
				responseType := ""
				if p.Template != nil {
					responseType = p.Template.ResponseType
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, responseType, p.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}
