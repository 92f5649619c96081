package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel         string // Log verbosity level
	defaultsFilePath string // Path to defaults.yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "effindex",
	Short: "Efficiency index calculator and audit tool",
	Long: "Compute E_true = output / (visible time * entropy) for a single point or a CSV batch, " +
		"combine it with safety/proportionality guardrails into a flagged score, " +
		"and generate or plot synthetic efficiency grids.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadConfig reads the defaults file named by --defaults-filepath. Only an
// explicitly passed path must exist.
func loadConfig(cmd *cobra.Command) Config {
	cfg, err := loadDefaultsConfig(defaultsFilePath, cmd.Flags().Changed("defaults-filepath"))
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-filepath", "defaults.yaml", "Path to defaults.yaml")
}
