package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"scitech-bot/internal/bootstrap"
	"scitech-bot/internal/config"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(load func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Print the linguistic analysis of a sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := bootstrap.NewContainer(load())
			if err != nil {
				return err
			}
			defer container.Close()

			res, err := container.ChatService.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Analisis)
			}
			analysisColor.Fprint(cmd.OutOrStdout(), res.Tabla)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}
