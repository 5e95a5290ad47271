package main

import (
	"scitech-bot/internal/config"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "scitech",
		Short:        "Console client for SciTech Bot",
		Long:         "scitech talks to the rule-based science and technology chatbot from the terminal: chat with it, analyze sentences and inspect the active configuration.",
		SilenceUsage: true,
	}

	var overrides struct {
		mode    string
		catalog string
	}
	rootCmd.PersistentFlags().StringVar(&overrides.mode, "mode", "", "operation mode: basic, sentiment, llm or hybrid")
	rootCmd.PersistentFlags().StringVar(&overrides.catalog, "catalog", "", "keyword catalog to load")

	load := func() *config.Config {
		cfg := config.Load()
		cfg.App.ConsoleLogs = false
		if overrides.mode != "" {
			cfg.ApplyMode(overrides.mode)
		}
		if overrides.catalog != "" {
			cfg.Chatbot.Catalog = overrides.catalog
		}
		return cfg
	}

	rootCmd.AddCommand(
		newChatCmd(load),
		newAnalyzeCmd(load),
		newConfigCmd(load),
		newWatchCmd(load),
	)

	return rootCmd
}
