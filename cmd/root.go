package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rubikabot/ingestcore/internal/config"
)

// rootCmd is the base command; serve runs by default when no subcommand
// is given, matching the teacher's single-binary CLI shape.
var rootCmd = &cobra.Command{
	Use:   "ingestcore",
	Short: "Rubika webhook ingestion and moderation core",
	Long: `ingestcore receives Rubika bot webhooks, rate-limits and deduplicates
them, and dispatches each update through an ordered plugin chain
(logging, anti-link, anti-flood, filters, commands, panel).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command, exiting the process on failure the way
// the teacher's cmd.Execute does.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func loadConfigOrDie(log *logrus.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	level, lvlErr := logrus.ParseLevel(cfg.LogLevel)
	if lvlErr != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return cfg
}
