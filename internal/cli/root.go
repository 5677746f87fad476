// Package cli implements the plannerctl commands: minting development
// tokens, applying the schema, planning offline from a JSON file and
// running the schedule.saved consumer on its own.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/logging"
)

var envFile string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "plannerctl",
	Short: "Operate the cinema marathon planner",
	Long:  "Helpers around the planner service: tokens, schema, offline planning and the event consumer.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing file is fine when the environment is already set.
		_ = godotenv.Load(envFile)
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "dotenv file to load before running")
}

func newLogger() zerolog.Logger {
	return logging.New(config.LoadLogConfig(), os.Stderr)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
