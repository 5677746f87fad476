package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/database"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the planner tables if they do not exist",
		Run:   runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		exitErr("migrate", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements to %s\n", len(database.Statements()), cfg.DBName)
}
