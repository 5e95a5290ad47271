package main

import (
	"encoding/json"
	"fmt"

	"scitech-bot/internal/config"
	"scitech-bot/internal/constant"

	"github.com/spf13/cobra"
)

func newConfigCmd(load func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := load()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Summary())
			}

			onOff := func(b bool) string {
				if b {
					return "activado"
				}
				return "desactivado"
			}

			systemColor.Fprintf(out, "%s v%s\n", constant.BotName, constant.BotVersion)
			fmt.Fprintf(out, "Modo:        %s\n", cfg.Chatbot.Mode)
			fmt.Fprintf(out, "Descripción: %s\n", cfg.Chatbot.Description)
			fmt.Fprintf(out, "Catálogo:    %s\n", cfg.Chatbot.Catalog)
			fmt.Fprintf(out, "Sentimiento: %s\n", onOff(cfg.Sentiment.Enabled))
			fmt.Fprintf(out, "LLM:         %s (%s)\n", onOff(cfg.LLM.Enabled), cfg.LLM.Provider)
			fmt.Fprintf(out, "Sesiones:    %s, expiran tras %s\n", cfg.Session.Store, cfg.Session.TTL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
